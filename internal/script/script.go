// Package script embeds a Lua interpreter over a running machine,
// the host-facing scripting layer spec.md names only at its interface
// (reset/tick_frame/tick_n/register peek-poke/breakpoints) and leaves
// for a collaborator to implement. It never reaches into the core's
// internals beyond what internal/machine already exports, the same
// boundary the windowed and headless runners in cmd/amigacore keep.
package script

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/amigacore/coreemu/internal/bus"
	"github.com/amigacore/coreemu/internal/machine"
)

// Engine owns one Lua state bound to one machine. Mirroring the
// teacher's CoprocessorManager, Run and RunFile take the same lock, so
// two scripts on one Engine never run at once; a host that calls the
// machine's TickFrame directly does not take this lock.
type Engine struct {
	mu sync.Mutex
	m  *machine.Machine
	L  *lua.LState
}

// New creates an Engine bound to m and installs the "machine" global
// table scripts call into.
func New(m *machine.Machine) *Engine {
	e := &Engine{m: m, L: lua.NewState()}
	e.registerAPI()
	return e
}

// Close releases the Lua state.
func (e *Engine) Close() { e.L.Close() }

// Run executes a Lua script's source, e.g. a test harness or a
// recorded input macro.
func (e *Engine) Run(source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.L.DoString(source)
}

// RunFile executes a Lua script loaded from disk.
func (e *Engine) RunFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.L.DoFile(path)
}

func (e *Engine) registerAPI() {
	tbl := e.L.NewTable()
	reg := func(name string, fn lua.LGFunction) {
		e.L.SetField(tbl, name, e.L.NewFunction(fn))
	}

	reg("reset", e.luaReset)
	reg("tick_n", e.luaTickN)
	reg("tick_frame", e.luaTickFrame)
	reg("master_tick", e.luaMasterTick)

	reg("load_rom", e.luaLoadROM)
	reg("load_disk_image", e.luaLoadDiskImage)
	reg("feed_disk_bit", e.luaFeedDiskBit)

	reg("key_event", e.luaKeyEvent)
	reg("mouse_event", e.luaMouseEvent)
	reg("joy_event", e.luaJoyEvent)

	reg("peek_byte", e.luaPeek(bus.Byte))
	reg("peek_word", e.luaPeek(bus.Word))
	reg("peek_long", e.luaPeek(bus.Long))
	reg("poke_byte", e.luaPoke(bus.Byte))
	reg("poke_word", e.luaPoke(bus.Word))
	reg("poke_long", e.luaPoke(bus.Long))

	reg("get_register", e.luaGetRegister)
	reg("set_register", e.luaSetRegister)

	reg("add_breakpoint", e.luaAddBreakpoint)
	reg("remove_breakpoint", e.luaRemoveBreakpoint)
	reg("add_watchpoint", e.luaAddWatchPoint)
	reg("remove_watchpoint", e.luaRemoveWatchPoint)
	reg("stopped_on_breakpoint", e.luaStoppedOnBreakpoint)

	e.L.SetGlobal("machine", tbl)
}

func (e *Engine) luaReset(L *lua.LState) int {
	e.m.Reset()
	return 0
}

func (e *Engine) luaTickN(L *lua.LState) int {
	n := L.CheckInt64(1)
	e.m.TickN(uint64(n))
	return 0
}

// luaTickFrame advances one frame and returns the framebuffer and
// sample count as Lua byte strings/numbers rather than full sample
// tables, since scripts typically check totals or hashes rather than
// iterate every pixel.
func (e *Engine) luaTickFrame(L *lua.LState) int {
	frame, samples := e.m.TickFrame()
	L.Push(lua.LString(string(frame)))
	L.Push(lua.LNumber(len(samples)))
	return 2
}

func (e *Engine) luaMasterTick(L *lua.LState) int {
	L.Push(lua.LNumber(e.m.MasterTick()))
	return 1
}

func (e *Engine) luaLoadROM(L *lua.LState) int {
	path := L.CheckString(1)
	img, err := readFile(path)
	if err != nil {
		L.RaiseError("load_rom: %v", err)
		return 0
	}
	e.m.LoadROM(img)
	return 0
}

func (e *Engine) luaLoadDiskImage(L *lua.LState) int {
	path := L.CheckString(1)
	img, err := readFile(path)
	if err != nil {
		L.RaiseError("load_disk_image: %v", err)
		return 0
	}
	e.m.LoadDiskImage(img)
	return 0
}

func (e *Engine) luaFeedDiskBit(L *lua.LState) int {
	e.m.FeedDiskBit()
	return 0
}

func (e *Engine) luaKeyEvent(L *lua.LState) int {
	code := uint8(L.CheckInt(1))
	down := L.CheckBool(2)
	e.m.KeyEvent(code, down)
	return 0
}

func (e *Engine) luaMouseEvent(L *lua.LState) int {
	dx := int8(L.CheckInt(1))
	dy := int8(L.CheckInt(2))
	buttons := uint8(L.CheckInt(3))
	e.m.MouseEvent(dx, dy, buttons)
	return 0
}

func (e *Engine) luaJoyEvent(L *lua.LState) int {
	mask := uint8(L.CheckInt(1))
	e.m.JoyEvent(mask)
	return 0
}

// luaPeek and luaPoke expose the whole 24-bit address space at a
// given width, so a script can inspect chip RAM, the custom-register
// window, or either CIA window through the same decode path the CPU
// itself uses (internal/bus.Fabric.Peek/Poke), rather than duplicating
// internal/machine's register dispatch table a second time.
func (e *Engine) luaPeek(sz bus.Size) lua.LGFunction {
	return func(L *lua.LState) int {
		addr := uint32(L.CheckInt64(1))
		L.Push(lua.LNumber(e.m.Bus.Peek(addr, sz)))
		return 1
	}
}

func (e *Engine) luaPoke(sz bus.Size) lua.LGFunction {
	return func(L *lua.LState) int {
		addr := uint32(L.CheckInt64(1))
		val := uint32(L.CheckInt64(2))
		e.m.Bus.Poke(addr, sz, val)
		return 0
	}
}

// luaGetRegister and luaSetRegister expose the CPU's programmer-
// visible registers by name ("d0".."d7", "a0".."a7", "pc", "sr").
func (e *Engine) luaGetRegister(L *lua.LState) int {
	name := L.CheckString(1)
	v, ok := registerByName(e.m.Registers(), name)
	if !ok {
		L.RaiseError("get_register: unknown register %q", name)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (e *Engine) luaSetRegister(L *lua.LState) int {
	name := L.CheckString(1)
	val := uint32(L.CheckInt64(2))
	r := e.m.Registers()
	if !setRegisterByName(&r, name, val) {
		L.RaiseError("set_register: unknown register %q", name)
		return 0
	}
	e.m.SetRegisters(r)
	return 0
}

func (e *Engine) luaAddBreakpoint(L *lua.LState) int {
	pc := uint32(L.CheckInt64(1))
	L.Push(lua.LNumber(e.m.AddBreakpoint(pc)))
	return 1
}

func (e *Engine) luaRemoveBreakpoint(L *lua.LState) int {
	idx := L.CheckInt(1)
	e.m.RemoveBreakpoint(idx)
	return 0
}

func (e *Engine) luaAddWatchPoint(L *lua.LState) int {
	addr := uint32(L.CheckInt64(1))
	onRead := L.CheckBool(2)
	onWrite := L.CheckBool(3)
	idx := e.m.AddWatchPoint(machine.WatchPoint{Addr: addr, OnRead: onRead, OnWrite: onWrite})
	L.Push(lua.LNumber(idx))
	return 1
}

func (e *Engine) luaRemoveWatchPoint(L *lua.LState) int {
	idx := L.CheckInt(1)
	e.m.RemoveWatchPoint(idx)
	return 0
}

func (e *Engine) luaStoppedOnBreakpoint(L *lua.LState) int {
	L.Push(lua.LBool(e.m.StoppedOnBreakpoint()))
	return 1
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
