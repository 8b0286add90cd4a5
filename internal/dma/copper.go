package dma

// Copper opcodes are carried in bit 0 of the first instruction word:
// clear for MOVE, set for the WAIT/SKIP pair (disambiguated by bit 0
// of the second word, spec §4.2 "Copper"). The pair $FFFF,$FFFE is the
// end-of-list sentinel.
const (
	copperRegMask = 0x1FE // legal custom-register offsets are even and below 0x200
)

// CopperInstruction is a decoded two-word copper instruction.
type CopperInstruction struct {
	IsWait     bool
	IsSkip     bool
	RegAddr    uint32 // MOVE target, offset from $DFF000
	Value      uint16 // MOVE immediate
	CompareV   uint16
	CompareH   uint16
	MaskV      uint16
	MaskH      uint16
	BlitWait   bool // also wait on blitter-finished
}

// Copper is the display-list processor embedded in the DMA coprocessor.
// It holds two list pointers, the active program counter, and a
// danger-bit permission level gating which registers MOVE may target
// (spec §4.2). Real hardware holds its next instruction word in a
// two-entry prefetch pipeline so a fetch and a decode can overlap;
// this model instead fetches each word synchronously inside Step,
// trading that one cycle of fetch/decode overlap for a simpler state
// machine (see DESIGN.md).
type Copper struct {
	List1, List2 uint32
	PC           uint32
	Danger       bool

	waiting  bool
	waitCond CopperInstruction

	Halted bool
}

// Jump strobes the copper's active pointer to list1 or list2; writing
// either COPJMP register latches the corresponding list as PC
// (spec §4.2 "copper-jump strobe").
func (c *Copper) Jump(useList2 bool) {
	if useList2 {
		c.PC = c.List2
	} else {
		c.PC = c.List1
	}
	c.waiting = false
	c.Halted = false
}

// RestartAtVBlank reloads the copper's PC from list 1, the rule that
// fires every vertical blank regardless of where the list had reached
// (spec §4.2).
func (c *Copper) RestartAtVBlank() {
	c.Jump(false)
}

// blitterBusy reports the coprocessor's blitter status, needed to
// evaluate a WAIT/SKIP that also waits on blitter-finished.
type blitterBusy interface {
	Busy() bool
}

// fetchWord reads one copper instruction word from chip memory and
// advances PC. It takes no time of its own: Step calls it synchronously
// within the one slot the DMA coprocessor has granted to the copper.
func (c *Copper) fetchWord(mem ChipMemory) uint16 {
	w := mem.ReadWord(c.PC)
	c.PC += 2
	return w
}

// Poll re-evaluates a pending WAIT against the current beam position.
// Real hardware's beam comparator runs every color clock regardless of
// whether the copper holds the chip bus that cycle, so Poll must be
// called unconditionally each cycle rather than only when the DMA
// coprocessor has granted the copper an actual fetch slot.
func (c *Copper) Poll(beam *Beam, blt blitterBusy) {
	if c.waiting && c.conditionMet(beam, blt) {
		c.waiting = false
	}
}

// Waiting reports whether the copper is parked on an unmet WAIT and so
// does not need a fetch slot this cycle.
func (c *Copper) Waiting() bool { return c.waiting }

// Step runs one DMA slot's worth of copper work: fetches and executes
// exactly one instruction. The caller must only invoke Step when it
// has granted the copper a slot and Halted/Waiting are both false.
func (c *Copper) Step(mem ChipMemory, beam *Beam, blt blitterBusy) (regAddr uint32, value uint16, applied bool) {
	if c.Halted || c.waiting {
		return 0, 0, false
	}

	w0 := c.fetchWord(mem)
	if w0&1 == 0 {
		// MOVE: w0 bits 8-1 select the register, low bit clear.
		reg := uint32(w0) & copperRegMask
		val := c.fetchWord(mem)
		if !c.Danger && !registerIsSafe(reg) {
			return 0, 0, false // illegal target outside danger permission, silently dropped
		}
		return reg, val, true
	}

	w1 := c.fetchWord(mem)
	if w0 == 0xFFFF && w1 == 0xFFFE {
		c.Halted = true
		return 0, 0, false
	}
	inst := CopperInstruction{
		CompareV: uint16(w0 >> 8),
		CompareH: uint16(w0) & 0xFE,
		MaskV:    uint16(w1 >> 8),
		MaskH:    uint16(w1) & 0xFE,
		BlitWait: w1&0x8000 == 0, // bit 15 clear means also gate on blitter-finished
	}
	if w1&1 == 0 {
		inst.IsSkip = true
		c.waitCond = inst
		if c.conditionMet(beam, blt) {
			c.skipNext(mem) // the comparison already passed: skip the following instruction
		}
		return 0, 0, false
	}

	inst.IsWait = true
	c.waitCond = inst
	if !c.conditionMet(beam, blt) {
		c.waiting = true
	}
	return 0, 0, false
}

// skipNext advances PC past the following two-word instruction without
// executing it.
func (c *Copper) skipNext(mem ChipMemory) {
	c.PC += 4
}

func (c *Copper) conditionMet(beam *Beam, blt blitterBusy) bool {
	if c.waitCond.BlitWait && blt != nil && blt.Busy() {
		return false
	}
	return beam.Matches(c.waitCond.CompareV, c.waitCond.CompareH, c.waitCond.MaskV, c.waitCond.MaskH)
}

// registerIsSafe reports whether reg is reachable without the danger
// bit: everything outside the blitter's own register block (spec §4.2
// "danger-bit permission level"). The protected block is modeled as a
// single contiguous window; no other register is protected.
func registerIsSafe(reg uint32) bool {
	return reg < blitterRegBase || reg >= blitterRegBase+blitterRegSize
}
