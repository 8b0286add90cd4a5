package cia

// Interrupt source bits for this chip's own five-source controller
// (spec §4.5 "a five-source interrupt controller with a read-clears-
// latch status register") — timer A underflow, timer B underflow,
// time-of-day alarm, serial port complete, and the FLAG input edge
// (disk index pulse on instance B, vsync on instance A in some
// configurations).
const (
	FlagTimerA uint8 = 1 << 0
	FlagTimerB uint8 = 1 << 1
	FlagTOD    uint8 = 1 << 2
	FlagSerial uint8 = 1 << 3
	FlagFlag   uint8 = 1 << 4

	flagIRQ uint8 = 1 << 7 // set in the status byte whenever any enabled source is latched
)

// InterruptController is CIA's small per-chip controller: a status
// latch that accumulates source bits until read (which clears it),
// and a mask of which sources actually assert the shared IRQ line.
type InterruptController struct {
	status uint8
	mask   uint8
}

// SetMask updates which of the five sources propagate to IRQ.
func (ic *InterruptController) SetMask(mask uint8) { ic.mask = mask & 0x1F }

// Raise latches one or more source bits.
func (ic *InterruptController) Raise(bits uint8) {
	ic.status |= bits & 0x1F
}

// ReadStatus returns the latched sources (with bit 7 set if any
// enabled source is pending) and clears the latch, per the
// read-clears convention.
func (ic *InterruptController) ReadStatus() uint8 {
	v := ic.status
	if ic.status&ic.mask != 0 {
		v |= flagIRQ
	}
	ic.status = 0
	return v
}

// Pending reports whether an enabled source is currently latched,
// without clearing anything — used by the orchestrator to decide
// whether to route this chip's IRQ line into the main interrupt
// controller this cycle.
func (ic *InterruptController) Pending() bool {
	return ic.status&ic.mask != 0
}
