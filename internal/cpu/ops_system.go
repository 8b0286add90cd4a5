package cpu

// execReset implements the privileged RESET instruction: pulses the
// peripheral reset line without touching the CPU's own registers.
// This package has no peripheral bus of its own to pulse, so the
// implementation here just enforces the privilege check and burns the
// documented internal delay; internal/machine wires the actual pulse
// once it owns both the CPU and the peripherals it resets.
func (c *CPU) execReset() {
	if !c.reg.Supervisor() {
		c.RaiseBusError(VectorPrivilege, 0, false)
		c.enterException(VectorPrivilege, false)
		return
	}
	c.enqueueInternal(132, nil)
}

// execStop implements STOP #data: loads SR from the immediate word
// and halts instruction fetch until an unmasked interrupt arrives
// (checked at the top of every subsequent Tick).
func (c *CPU) execStop() {
	data := c.immediateValue(Word)
	c.after(func(cc *CPU) {
		if !cc.reg.Supervisor() {
			cc.RaiseBusError(VectorPrivilege, 0, false)
			cc.enterException(VectorPrivilege, false)
			return
		}
		cc.reg.SR = uint16(data)
		cc.stopped = true
	})
}

// execTrapv raises vector 7 if the overflow flag is set, otherwise a
// no-op.
func (c *CPU) execTrapv() {
	c.after(func(cc *CPU) {
		if cc.reg.SR&SROverflow != 0 {
			cc.enterException(VectorTRAPV, false)
		}
	})
}

// execChk implements CHK <ea>,Dn: traps (vector 6) if Dn, as a signed
// word, is negative or greater than the upper bound operand.
func (c *CPU) execChk(ir uint16) {
	reg := uint8((ir >> 9) & 7)
	mode, eaReg := splitEA(ir)
	bound := c.resolveSource(mode, eaReg, Word)
	c.readOperandImmediateAware(bound, Word, func(cc *CPU, bv uint32) {
		cc.after(func(cc2 *CPU) {
			v := int16(cc2.reg.D[reg] & 0xFFFF)
			b := int16(bv)
			if v < 0 {
				cc2.reg.SR |= SRNegative
				cc2.enterException(VectorCHK, false)
				return
			}
			if v > b {
				cc2.reg.SR &^= SRNegative
				cc2.enterException(VectorCHK, false)
				return
			}
		})
	})
}

// execTas implements TAS <ea>: an indivisible test-and-set used by
// guest code as a spinlock primitive. The fabric sees this as one
// read followed by one write; real hardware locks the bus between
// them, a guarantee this single-core, DMA-arbitrated fabric provides
// for free since nothing else can observe the gap.
func (c *CPU) execTas(ir uint16) {
	mode, reg := splitEA(ir)
	dst := c.resolveEA(mode, reg, Byte)
	c.after(func(cc *CPU) {
		cc.readOperand(dst, Byte, func(cc2 *CPU, dv uint32) {
			cc2.setFlagsLogical(dv, Byte)
			cc2.writeOperand(dst, Byte, dv|0x80, nil2)
		})
	})
}

// execSwap implements SWAP Dn: exchanges the high and low words.
func (c *CPU) execSwap(ir uint16) {
	reg := uint8(ir & 7)
	c.after(func(cc *CPU) {
		v := cc.reg.D[reg]
		result := (v << 16) | (v >> 16)
		cc.reg.D[reg] = result
		cc.setFlagsLogical(result, Long)
	})
}

// execExt implements EXT.W/EXT.L Dn: sign-extends a byte to a word or
// a word to a long.
func (c *CPU) execExt(ir uint16) {
	reg := uint8(ir & 7)
	toLong := ir&0x0040 != 0
	c.after(func(cc *CPU) {
		if toLong {
			v := uint32(int32(int16(cc.reg.D[reg] & 0xFFFF)))
			cc.reg.D[reg] = v
			cc.setFlagsLogical(v, Long)
			return
		}
		v := signExtendByte(uint8(cc.reg.D[reg] & 0xFF))
		cc.reg.D[reg] = (cc.reg.D[reg] &^ 0xFFFF) | (v & 0xFFFF)
		cc.setFlagsLogical(v&0xFFFF, Word)
	})
}

// execMisc4 handles the remaining 0x4000-range opcodes not claimed by
// a more specific case above: TRAP #n and MOVE to/from USP. MOVE
// to/from SR and CCR share this same top-byte space on real hardware;
// this representative instruction set does not implement them as a
// distinct path (see DESIGN.md), so guest code using them decodes as
// illegal here rather than as a register move.
func (c *CPU) execMisc4(ir uint16) {
	switch {
	case ir&0xFFF0 == 0x4E40: // TRAP #n
		vector := uint8(VectorTrapBase) + uint8(ir&0xF)
		c.after(func(cc *CPU) {
			cc.enterException(vector, false)
		})
	case ir&0xFFF8 == 0x4E60: // MOVE An,USP
		reg := uint8(ir & 7)
		c.after(func(cc *CPU) {
			if !cc.reg.Supervisor() {
				cc.RaiseBusError(VectorPrivilege, 0, false)
				cc.enterException(VectorPrivilege, false)
				return
			}
			cc.reg.USP = cc.reg.A[reg]
		})
	case ir&0xFFF8 == 0x4E68: // MOVE USP,An
		reg := uint8(ir & 7)
		c.after(func(cc *CPU) {
			if !cc.reg.Supervisor() {
				cc.RaiseBusError(VectorPrivilege, 0, false)
				cc.enterException(VectorPrivilege, false)
				return
			}
			cc.reg.A[reg] = cc.reg.USP
		})
	default:
		c.illegalInstruction()
	}
}
