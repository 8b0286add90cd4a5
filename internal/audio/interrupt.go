package audio

// Interrupt source bit positions, shared with the DMA coprocessor's
// own IRQ bit assignments so both sides agree on what a given bit
// means (spec §4.4 "Interrupt controller").
const (
	IRQDiskBlock     uint16 = 1 << 1
	IRQVerticalBlank uint16 = 1 << 5
	IRQBlitterDone   uint16 = 1 << 6
	IRQCopper        uint16 = 1 << 7
	IRQAudio0        uint16 = 1 << 8
	IRQAudio1        uint16 = 1 << 9
	IRQAudio2        uint16 = 1 << 10
	IRQAudio3        uint16 = 1 << 11
	IRQCIAA          uint16 = 1 << 3  // PRA/PRB/timer/TOD/serial on the port-A-side peripheral chip
	IRQCIAB          uint16 = 1 << 13 // same sources on the second peripheral chip instance

	irqMasterEnable uint16 = 1 << 15
)

// sourceLevel maps each defined source bit to its CPU interrupt priority
// level (1-6), the fixed mapping spec §4.4 describes. Lower-index
// entries here are intentionally lower priority; ties are resolved by
// bit position (higher bit wins), matching how the real controller's
// priority encoder is wired.
var sourceLevel = map[uint16]int{
	IRQDiskBlock:     1,
	IRQVerticalBlank: 3,
	IRQAudio0:        4,
	IRQAudio1:        4,
	IRQAudio2:        4,
	IRQAudio3:        4,
	IRQBlitterDone:   5,
	IRQCopper:        6,
	IRQCIAA:          2,
	IRQCIAB:          6,
}

// InterruptController implements the pending/enabled register pair
// and top-bit set/clear write convention (spec §4.4). Bit 15 of the
// enabled register is the master-enable latch; it is set/cleared
// through the same convention as any other bit, and Level reports no
// interrupt while it is clear.
type InterruptController struct {
	pending uint16
	enabled uint16
}

// WritePending applies a set/clear-style write: bit 15 of value
// chooses whether the remaining bits are ORed in or ANDed out.
func (ic *InterruptController) WritePending(value uint16) {
	ic.pending = applySetClear(ic.pending, value)
}

// WriteEnabled applies the same set/clear convention to the enable
// mask, including the master-enable bit itself (bit 15).
func (ic *InterruptController) WriteEnabled(value uint16) {
	ic.enabled = applySetClear(ic.enabled, value)
}

func applySetClear(reg, value uint16) uint16 {
	if value&irqMasterEnable != 0 {
		return reg | value
	}
	return reg &^ value
}

// ReadPending returns the raw pending register (software typically
// reads this to decide which handler to run; it is not auto-cleared).
func (ic *InterruptController) ReadPending() uint16 { return ic.pending }

// Raise marks one or more source bits pending, called by the DMA,
// video, or audio coprocessor when it detects the corresponding
// condition this cycle.
func (ic *InterruptController) Raise(bits uint16) {
	ic.pending |= bits
}

// Level computes the highest-priority enabled-and-pending source this
// cycle and returns the CPU interrupt-priority level to publish (0 if
// nothing qualifies, or the master enable is clear).
func (ic *InterruptController) Level() int {
	if ic.enabled&irqMasterEnable == 0 {
		return 0
	}
	active := ic.pending & ic.enabled
	level := 0
	for bit, lvl := range sourceLevel {
		if active&bit != 0 && lvl > level {
			level = lvl
		}
	}
	return level
}
