package machine

import (
	"github.com/amigacore/coreemu/internal/audio"
	"github.com/amigacore/coreemu/internal/cia"
	"github.com/amigacore/coreemu/internal/cpu"
	"github.com/amigacore/coreemu/internal/video"
)

// Breakpoint halts TickN/TickFrame on the master tick at which the
// CPU's program counter equals PC, part of the inspection
// surface spec §6 calls out ("subscribe to breakpoints by PC").
type Breakpoint struct {
	PC      uint32
	Enabled bool
}

// WatchPoint halts once a memory access matching Addr (and, if Size is
// non-zero, that exact width) occurs, per spec §6's "or by memory-
// access pattern". Reads, writes, or both can be watched.
type WatchPoint struct {
	Addr     uint32
	Size     cpu.Size // 0 matches any width
	OnRead   bool
	OnWrite  bool
	Enabled  bool
}

// Monitor tracks breakpoints/watchpoints and the most recent stop
// reason, following the teacher's debug-interface shape of a small
// struct the orchestrator consults every step rather than a
// push-based callback system (a callback would have to cross into the
// deterministic core's control flow, which spec §5 treats as off
// limits).
type Monitor struct {
	breakpoints []Breakpoint
	watchpoints []WatchPoint

	Hit     bool
	HitPC   uint32
	HitAddr uint32
}

// AddBreakpoint registers a new PC breakpoint and returns its index
// for later removal.
func (m *Machine) AddBreakpoint(pc uint32) int {
	m.mon.breakpoints = append(m.mon.breakpoints, Breakpoint{PC: pc, Enabled: true})
	return len(m.mon.breakpoints) - 1
}

// AddWatchPoint registers a new memory watchpoint and returns its
// index for later removal.
func (m *Machine) AddWatchPoint(w WatchPoint) int {
	w.Enabled = true
	m.mon.watchpoints = append(m.mon.watchpoints, w)
	return len(m.mon.watchpoints) - 1
}

// RemoveBreakpoint and RemoveWatchPoint disable (rather than
// compact-delete) an entry so previously returned indices stay valid.
func (m *Machine) RemoveBreakpoint(idx int) {
	if idx >= 0 && idx < len(m.mon.breakpoints) {
		m.mon.breakpoints[idx].Enabled = false
	}
}

func (m *Machine) RemoveWatchPoint(idx int) {
	if idx >= 0 && idx < len(m.mon.watchpoints) {
		m.mon.watchpoints[idx].Enabled = false
	}
}

// StoppedOnBreakpoint reports whether the most recent TickN/TickFrame
// call returned early because a breakpoint or watchpoint fired.
func (m *Machine) StoppedOnBreakpoint() bool { return m.mon.Hit }

// checkBreakpoints runs once per master tick, ahead of the CPU's own
// Tick call, and compares the CPU's current PC with each breakpoint.
// PC follows every prefetch refill, so a match can land mid-instruction
// as well as at an instruction boundary.
func (mon *Monitor) checkBreakpoints(m *Machine) {
	mon.Hit = false
	pc := m.CPU.Registers().PC
	for _, bp := range mon.breakpoints {
		if bp.Enabled && bp.PC == pc {
			mon.Hit = true
			mon.HitPC = pc
			return
		}
	}
}

// NotifyAccess lets the bus fabric report a memory access for
// watchpoint matching. internal/bus has no watchpoint awareness of
// its own: New wires this method in as the fabric's access observer
// (bus.Fabric.AttachAccessObserver), a plain function value rather
// than an import of this package, so every CPU-originated
// ReadCycle/WriteCycle reports here without the fabric ever knowing
// what a watchpoint is.
func (m *Machine) NotifyAccess(addr uint32, sz cpu.Size, isWrite bool) {
	for i := range m.mon.watchpoints {
		w := &m.mon.watchpoints[i]
		if !w.Enabled || w.Addr != addr {
			continue
		}
		if w.Size != 0 && w.Size != sz {
			continue
		}
		if (isWrite && w.OnWrite) || (!isWrite && w.OnRead) {
			m.mon.Hit = true
			m.mon.HitAddr = addr
		}
	}
}

// Snapshot is a serializable copy of machine state, the idiom spec §6's
// "snapshot/restore" calls for (grounded on the same plain-struct-copy
// shape internal/cpu.Registers already uses for its own state
// transfer). It holds the master tick, RAM, CPU registers, the DMA
// control and pointer fields below, the video, audio and CIA chips, and
// the overlay flag. It does not hold the beam position, the copper, the
// blitter, or the CPU's prefetch words and micro-op queue.
type Snapshot struct {
	MasterTick uint64
	ChipRAM    []byte
	SlowRAM    []byte
	FastRAM    []byte

	CPU cpu.Registers

	DMACON           uint16
	BitplanePointers [6]uint32
	BitplaneCount    int
	SpritePointers   [8]uint32

	Video video.Chip
	Audio audio.Coprocessor
	CIAA  cia.Chip
	CIAB  cia.Chip

	Overlay bool
}

// Snapshot captures the machine state listed on the Snapshot type.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		MasterTick:       m.masterTick,
		ChipRAM:          append([]byte(nil), m.Bus.ChipRAM()...),
		SlowRAM:          append([]byte(nil), m.Bus.SlowRAM()...),
		FastRAM:          append([]byte(nil), m.Bus.FastRAM()...),
		CPU:              m.CPU.Registers(),
		DMACON:           m.DMA.DMACON,
		BitplanePointers: m.DMA.BitplanePointers,
		BitplaneCount:    m.DMA.BitplaneCount,
		SpritePointers:   m.DMA.SpritePointers,
		Video:            *m.Video,
		Audio:            *m.Audio,
		CIAA:             *m.CIAA,
		CIAB:             *m.CIAB,
		Overlay:          m.Bus.Overlay(),
	}
	return s
}

// Restore replaces the machine's live state with a previously captured
// snapshot.
func (m *Machine) Restore(s Snapshot) {
	m.masterTick = s.MasterTick
	copy(m.Bus.ChipRAM(), s.ChipRAM)
	copy(m.Bus.SlowRAM(), s.SlowRAM)
	copy(m.Bus.FastRAM(), s.FastRAM)
	m.CPU.SetRegisters(s.CPU)
	m.DMA.DMACON = s.DMACON
	m.DMA.BitplanePointers = s.BitplanePointers
	m.DMA.BitplaneCount = s.BitplaneCount
	m.DMA.SpritePointers = s.SpritePointers
	*m.Video = s.Video
	*m.Audio = s.Audio
	*m.CIAA = s.CIAA
	*m.CIAB = s.CIAB
	m.Bus.SetOverlay(s.Overlay)
}
