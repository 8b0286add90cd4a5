package machine

// Custom-register window sub-ranges: each coprocessor gets a fixed
// slice of the $DFF000-$DFF1FF window this orchestrator owns the
// decode table for (the individual packages only know their own
// relative offsets, per each package's own registers.go doc comment).
const (
	dmaBase   = 0x000
	videoBase = 0x100
	audioBase = 0x180
	customSize = 0x200
)

// customBus implements bus.CustomRegisters by routing to whichever
// coprocessor owns the addressed sub-range.
type customBus struct {
	m *Machine
}

func (c *customBus) ReadCustom(offset uint32) uint16 {
	return dispatchCustomRead(c.m, offset)
}

func (c *customBus) WriteCustom(offset uint32, val uint16) {
	dispatchCustomWrite(c.m, offset, val)
}

// dispatchCustomRead and dispatchCustomWrite are shared between CPU-
// originated accesses (through customBus) and copper-originated MOVE
// writes (through Machine.routeCopperWrite) so both paths agree on
// the same sub-range table.
func dispatchCustomRead(m *Machine, offset uint32) uint16 {
	switch {
	case offset < videoBase:
		return m.DMA.ReadRegister(offset - dmaBase)
	case offset < audioBase:
		return m.Video.ReadRegister(offset - videoBase)
	case offset < customSize:
		return m.Audio.ReadRegister(offset - audioBase)
	default:
		return 0
	}
}

func dispatchCustomWrite(m *Machine, offset uint32, val uint16) {
	switch {
	case offset < videoBase:
		// Per the documented write-visibility open question, DMA's own
		// registers (including the blitter's) are queued rather than
		// applied immediately; WriteRegister handles that deferral.
		m.DMA.WriteRegister(offset-dmaBase, val)
	case offset < audioBase:
		m.Video.WriteRegister(offset-videoBase, val)
	case offset < customSize:
		m.Audio.WriteRegister(m.audioMem, offset-audioBase, val)
	}
}

// chipArbiter implements bus.ChipArbiter by reporting the DMA
// coprocessor's chip-bus-busy signal from the most recently completed
// color clock (spec §4.6: the CPU sees a longer latency rather than
// anything more elaborate when it loses arbitration).
type chipArbiter struct {
	m *Machine
}

func (a *chipArbiter) ChipBusBusy(masterTick uint64) bool {
	return a.m.chipBusBusy
}
