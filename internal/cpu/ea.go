package cpu

// Effective addressing modes (spec §4.1 "twelve classical
// effective-addressing modes"). Mode 7 is qualified by reg.
const (
	eaDataReg      = 0
	eaAddrReg      = 1
	eaIndirect     = 2
	eaPostInc      = 3
	eaPreDec       = 4
	eaDisp16       = 5
	eaIndexed8     = 6
	eaExtended     = 7 // reg selects the sub-mode below
	eaAbsShort     = 0
	eaAbsLong      = 1
	eaPCDisp16     = 2
	eaPCIndexed8   = 3
	eaImmediate    = 4
)

// signExtendByte/Word widen a two's-complement value to 32 bits.
func signExtendByte(v uint8) uint32  { return uint32(int32(int8(v))) }
func signExtendWord(v uint16) uint32 { return uint32(int32(int16(v))) }

// briefExtension decodes the 68000 "brief" index extension word used
// by d8(An,Xn) and d8(PC,Xn): bit 15 selects A/D register, bits 12-14
// the register number, bit 11 selects word/long index size, and the
// low byte is the signed displacement.
func (c *CPU) briefExtension(ext uint16) (index int32, disp int32) {
	reg := (ext >> 12) & 7
	var regVal uint32
	if ext&0x8000 != 0 {
		regVal = c.reg.A[reg]
	} else {
		regVal = c.reg.D[reg]
	}
	if ext&0x0800 == 0 {
		regVal = uint32(signExtendWord(uint16(regVal)))
	}
	disp8 := int8(ext & 0xFF)
	return int32(regVal), int32(disp8)
}

// operand describes a resolved effective address: either a register
// (isMemory false, value already known) or a memory location awaiting
// a timed bus access.
type operand struct {
	isMemory bool
	isAddrReg bool
	reg      uint8
	addr     uint32
}

// resolveEA computes the operand for mode/reg without performing any
// memory access; consuming extension words here is instantaneous
// per spec §3, with their refills already queued by the time this
// returns.
func (c *CPU) resolveEA(mode, reg uint8, sz Size) operand {
	switch mode {
	case eaDataReg:
		return operand{reg: reg}
	case eaAddrReg:
		return operand{reg: reg, isAddrReg: true}
	case eaIndirect:
		return operand{isMemory: true, addr: c.reg.A[reg]}
	case eaPostInc:
		addr := c.reg.A[reg]
		inc := sz.Bytes()
		if reg == 7 && sz == Byte {
			inc = 2 // A7 always moves in word steps to keep the stack aligned
		}
		c.reg.A[reg] += inc
		return operand{isMemory: true, addr: addr}
	case eaPreDec:
		dec := sz.Bytes()
		if reg == 7 && sz == Byte {
			dec = 2
		}
		c.reg.A[reg] -= dec
		return operand{isMemory: true, addr: c.reg.A[reg]}
	case eaDisp16:
		disp := c.consumeExtensionWord()
		return operand{isMemory: true, addr: c.reg.A[reg] + signExtendWord(disp)}
	case eaIndexed8:
		ext := c.consumeExtensionWord()
		index, disp := c.briefExtension(ext)
		return operand{isMemory: true, addr: c.reg.A[reg] + uint32(index) + uint32(disp)}
	case eaExtended:
		switch reg {
		case eaAbsShort:
			w := c.consumeExtensionWord()
			return operand{isMemory: true, addr: signExtendWord(w)}
		case eaAbsLong:
			hi := c.consumeExtensionWord()
			lo := c.consumeExtensionWord()
			return operand{isMemory: true, addr: uint32(hi)<<16 | uint32(lo)}
		case eaPCDisp16:
			base := c.reg.PC
			disp := c.consumeExtensionWord()
			return operand{isMemory: true, addr: base + signExtendWord(disp)}
		case eaPCIndexed8:
			base := c.reg.PC
			ext := c.consumeExtensionWord()
			index, disp := c.briefExtension(ext)
			return operand{isMemory: true, addr: base + uint32(index) + uint32(disp)}
		case eaImmediate:
			// Handled by callers via immediateValue, which also covers
			// the long (two-word) case; resolveEA is never asked to
			// produce an address for immediate source operands.
			return operand{}
		}
	}
	return operand{}
}

// immediateValue consumes the one or two extension words that make up
// an immediate operand of the given size.
func (c *CPU) immediateValue(sz Size) uint32 {
	if sz == Long {
		hi := c.consumeExtensionWord()
		lo := c.consumeExtensionWord()
		return uint32(hi)<<16 | uint32(lo)
	}
	v := c.consumeExtensionWord()
	if sz == Byte {
		return uint32(v) & 0xFF
	}
	return uint32(v)
}

// readOperand fetches the value at op, invoking then once it is
// available. Register operands resolve instantly; memory operands
// queue one (word/byte) or two (long, high word first) timed reads.
func (c *CPU) readOperand(op operand, sz Size, then func(cc *CPU, val uint32)) {
	if !op.isMemory {
		if op.isAddrReg {
			// Word-sized reads from an address register yield its low
			// word; sign-extension (ADDA/SUBA/CMPA/MOVEA) is the
			// caller's job, not the read's.
			then(c, c.reg.A[op.reg]&sz.Mask())
			return
		}
		then(c, c.reg.D[op.reg]&sz.Mask())
		return
	}
	if sz == Long {
		c.enqueueRead(op.addr, Word, func(cc *CPU, hi uint32) {
			cc.enqueueRead(op.addr+2, Word, func(cc2 *CPU, lo uint32) {
				then(cc2, hi<<16|lo)
			})
		})
		return
	}
	c.enqueueRead(op.addr, sz, then)
}

// writeOperand stores val into op, invoking then once complete.
func (c *CPU) writeOperand(op operand, sz Size, val uint32, then func(cc *CPU)) {
	if !op.isMemory {
		mask := sz.Mask()
		if op.isAddrReg {
			// Address register writes are always long: byte/word forms
			// sign-extend (MOVEA) rather than merge into the low bits.
			if sz != Long {
				val = signExtendWord(uint16(val))
			}
			c.reg.A[op.reg] = val
			then(c)
			return
		}
		c.reg.D[op.reg] = (c.reg.D[op.reg] &^ mask) | (val & mask)
		then(c)
		return
	}
	if sz == Long {
		c.enqueueWrite(op.addr, Word, (val>>16)&0xFFFF, func(cc *CPU) {
			cc.enqueueWrite(op.addr+2, Word, val&0xFFFF, then)
		})
		return
	}
	c.enqueueWrite(op.addr, sz, val&sz.Mask(), then)
}
