package cpu

// decodeAndExecute is the single dispatch point opcodes pass through.
// It runs as the instant marker queued right after the boundary
// prefetch refill, so by the time it runs, irc already holds whatever
// word follows the opcode (spec §4.1). Matching proceeds from the
// most specific bit patterns to the least, mirroring how the real
// instruction set's encoding is laid out.
func (c *CPU) decodeAndExecute(ir uint16) {
	switch {
	case ir&0xF000 == 0x0000:
		c.decodeBitsAndImmediates(ir)
	case ir&0xC000 == 0x0000 && ir&0x3000 != 0:
		c.execMove(ir)
	case ir&0xFFC0 == 0x4AC0:
		c.execTas(ir)
	case (ir&0xFF00 == 0x4000 || ir&0xFF00 == 0x4200 || ir&0xFF00 == 0x4400 || ir&0xFF00 == 0x4600 || ir&0xFF00 == 0x4A00) && ir&0x00C0 != 0x00C0:
		c.execNegNotClrTst(ir)
	case ir == 0x4E71:
		c.after(func(cc *CPU) {}) // NOP
	case ir == 0x4E70:
		c.execReset()
	case ir == 0x4E72:
		c.execStop()
	case ir == 0x4E73:
		c.execRTE()
	case ir == 0x4E75:
		c.execRTS()
	case ir == 0x4E76:
		// TRAPV
		c.execTrapv()
	case ir&0xFFF8 == 0x4E50:
		c.execLink(ir)
	case ir&0xFFF8 == 0x4E58:
		c.execUnlk(ir)
	case ir&0xFFC0 == 0x4E80:
		c.execJsr(ir)
	case ir&0xFFC0 == 0x4EC0:
		c.execJmp(ir)
	case ir&0xF1C0 == 0x41C0:
		c.execLea(ir)
	case ir&0xF1C0 == 0x4180:
		c.execChk(ir)
	case ir&0xFFC0 == 0x4840:
		c.execSwap(ir)
	case ir&0xFFF8 == 0x4880 || ir&0xFFF8 == 0x48C0:
		c.execExt(ir)
	case ir&0xFF00 == 0x4800:
		c.execMoveMulti(ir, true)
	case ir&0xFF00 == 0x4C00:
		c.execMoveMulti(ir, false)
	case ir&0xF000 == 0x5000 && ir&0x00C0 != 0x00C0:
		c.execAddqSubq(ir)
	case ir&0xF0F8 == 0x50C8:
		c.execDbcc(ir)
	case ir&0xF0C0 == 0x50C0:
		c.execScc(ir)
	case ir&0xF000 == 0x6000:
		c.execBcc(ir)
	case ir&0xF000 == 0x7000:
		c.execMoveq(ir)
	case ir&0xF000 == 0x8000:
		c.execOrDivSbcd(ir)
	case ir&0xF130 == 0x9100:
		c.execSubX(ir)
	case ir&0xF000 == 0x9000:
		c.execSubFamily(ir)
	case ir&0xF138 == 0xB108 && ir&0x00C0 != 0x00C0:
		c.execCmpm(ir)
	case ir&0xF000 == 0xB000:
		c.execCmpEorFamily(ir)
	case ir&0xF000 == 0xC000:
		c.execAndMulAbcdExg(ir)
	case ir&0xF130 == 0xD100:
		c.execAddX(ir)
	case ir&0xF000 == 0xD000:
		c.execAddFamily(ir)
	case ir&0xF000 == 0xE000:
		c.execShiftRotate(ir)
	case ir&0xF000 == 0x4000:
		c.execMisc4(ir)
	default:
		c.illegalInstruction()
	}
}

// illegalInstruction raises vector 4, matching guest code that
// decodes an unimplemented or genuinely illegal word (spec §4.5, §7:
// the core never panics for this — it is ordinary guest-visible
// behaviour, not a host bug).
func (c *CPU) illegalInstruction() {
	c.RaiseBusError(VectorIllegalInstr, 0, false)
	c.enterException(VectorIllegalInstr, false)
}

// splitEA pulls the mode/register pair out of the low 6 bits of an
// opcode word, the layout shared by almost every instruction's
// destination or sole operand field.
func splitEA(ir uint16) (mode, reg uint8) {
	return uint8((ir >> 3) & 7), uint8(ir & 7)
}

func sizeField2(bits uint16) Size {
	switch bits {
	case 0:
		return Byte
	case 1:
		return Word
	default:
		return Long
	}
}
