package script

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
	"github.com/stretchr/testify/require"

	"github.com/amigacore/coreemu/internal/machine"
)

func newTestEngine(t *testing.T) *Engine {
	m := machine.New(machine.Config{
		ChipRAMSize: 64 * 1024,
		SlowRAMSize: 16 * 1024,
		FastRAMSize: 16 * 1024,
		ROMBase:     0xF80000,
		PAL:         true,
	})
	e := New(m)
	t.Cleanup(e.Close)
	return e
}

func TestTickNAdvancesMasterTick(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Run(`machine.tick_n(40)`))
	require.Equal(t, uint64(40), e.m.MasterTick())
}

func TestPokeThenPeekRoundTripsChipRAM(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Run(`
		machine.poke_word(256, 0xBEEF)
		result = machine.peek_word(256)
	`))
	got, ok := e.L.GetGlobal("result").(lua.LNumber)
	require.True(t, ok)
	require.Equal(t, lua.LNumber(0xBEEF), got)
}

func TestSetThenGetRegisterRoundTrips(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Run(`machine.set_register("d3", 0x1234)`))
	regs := e.m.Registers()
	require.Equal(t, uint32(0x1234), regs.D[3])
}

func TestAddBreakpointIsObservedByMonitor(t *testing.T) {
	e := newTestEngine(t)
	pc := e.m.Registers().PC
	e.L.SetGlobal("pc", lua.LNumber(pc))
	require.NoError(t, e.Run(`
		idx = machine.add_breakpoint(pc)
		machine.tick_n(1)
		hit = machine.stopped_on_breakpoint()
	`))
	hit, ok := e.L.GetGlobal("hit").(lua.LBool)
	require.True(t, ok)
	require.True(t, bool(hit))
}

func TestUnknownRegisterNameRaisesLuaError(t *testing.T) {
	e := newTestEngine(t)
	err := e.Run(`machine.get_register("zz")`)
	require.Error(t, err)
}
