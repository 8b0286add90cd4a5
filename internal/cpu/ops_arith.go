package cpu

// decodeBitsAndImmediates handles every instruction encoded under the
// 0000 top nibble: the ANDI/ORI/EORI/SUBI/ADDI/CMPI immediate-to-<ea>
// family, their CCR/SR variants, and the static/dynamic bit
// instructions BTST/BCHG/BCLR/BSET.
func (c *CPU) decodeBitsAndImmediates(ir uint16) {
	switch {
	case ir == 0x003C: // ORI to CCR
		c.immedToSR(ir, false, func(a, b uint16) uint16 { return a | b })
	case ir == 0x007C: // ORI to SR
		c.immedToSR(ir, true, func(a, b uint16) uint16 { return a | b })
	case ir == 0x023C: // ANDI to CCR
		c.immedToSR(ir, false, func(a, b uint16) uint16 { return a & b })
	case ir == 0x027C: // ANDI to SR
		c.immedToSR(ir, true, func(a, b uint16) uint16 { return a & b })
	case ir == 0x0A3C: // EORI to CCR
		c.immedToSR(ir, false, func(a, b uint16) uint16 { return a ^ b })
	case ir == 0x0A7C: // EORI to SR
		c.immedToSR(ir, true, func(a, b uint16) uint16 { return a ^ b })
	case ir&0xFF00 == 0x0000:
		c.execImmedOp(ir, opORI)
	case ir&0xFF00 == 0x0200:
		c.execImmedOp(ir, opAND2)
	case ir&0xFF00 == 0x0400:
		c.execImmedOp(ir, opSUBI)
	case ir&0xFF00 == 0x0600:
		c.execImmedOp(ir, opADDI)
	case ir&0xFF00 == 0x0A00:
		c.execImmedOp(ir, opEORI)
	case ir&0xFF00 == 0x0C00:
		c.execImmedOp(ir, opCMPI)
	case ir&0xF1C0 == 0x0800 || ir&0xF1C0 == 0x0840 || ir&0xF1C0 == 0x0880 || ir&0xF1C0 == 0x08C0:
		c.execBitStatic(ir)
	case ir&0xF1C0 == 0x0100 || ir&0xF1C0 == 0x0140 || ir&0xF1C0 == 0x0180 || ir&0xF1C0 == 0x01C0:
		c.execBitDynamic(ir)
	default:
		c.illegalInstruction()
	}
}

type immedKind uint8

const (
	opAND immedKind = iota
	opAND2
	opSUBI
	opADDI
	opEORI
	opCMPI
	opORI
)

// immedToSR handles the ANDI/ORI/EORI-to-SR/CCR forms: the immediate
// is always a byte for CCR and a word for SR, and the combine
// function captures which bitwise op applies.
func (c *CPU) immedToSR(ir uint16, toSR bool, combine func(a, b uint16) uint16) {
	sz := Byte
	if toSR {
		sz = Word
	}
	imm := c.immediateValue(sz)
	c.after(func(cc *CPU) {
		if toSR && !cc.reg.Supervisor() {
			cc.RaiseBusError(VectorPrivilege, 0, false)
			cc.enterException(VectorPrivilege, false)
			return
		}
		if toSR {
			cc.reg.SR = combine(cc.reg.SR, uint16(imm))
			return
		}
		cc.reg.SR = cc.reg.SR&0xFF00 | combine(cc.reg.SR, uint16(imm))&0x00FF
	})
}

func (c *CPU) execImmedOp(ir uint16, kind immedKind) {
	sz := sizeField2((ir >> 6) & 3)
	mode, reg := splitEA(ir)
	imm := c.immediateValue(sz)
	dst := c.resolveEA(mode, reg, sz)
	c.after(func(cc *CPU) {
		cc.readOperand(dst, sz, func(cc2 *CPU, dv uint32) {
			var result uint32
			switch kind {
			case opAND, opAND2:
				result = dv & imm
				cc2.setFlagsLogical(result, sz)
			case opORI:
				result = dv | imm
				cc2.setFlagsLogical(result, sz)
			case opEORI:
				result = dv ^ imm
				cc2.setFlagsLogical(result, sz)
			case opADDI:
				result = dv + imm
				cc2.setFlagsAdd(imm, dv, result, sz)
			case opSUBI:
				result = dv - imm
				cc2.setFlagsSub(imm, dv, result, sz)
			case opCMPI:
				result = dv - imm
				cc2.setFlagsCmp(imm, dv, result, sz)
				return // CMPI never writes back
			}
			cc2.writeOperand(dst, sz, result, nil2)
		})
	})
}

func nil2(*CPU) {}

// execBitStatic implements BTST/BCHG/BCLR/BSET #n,<ea> (bit number in
// an extension word).
func (c *CPU) execBitStatic(ir uint16) {
	opType := (ir >> 6) & 3
	mode, reg := splitEA(ir)
	bitExt := c.consumeExtensionWord()
	c.after(func(cc *CPU) {
		cc.execBit(mode, reg, uint8(bitExt&0x1F), opType)
	})
}

// execBitDynamic implements BTST/BCHG/BCLR/BSET Dn,<ea> (bit number in
// a data register).
func (c *CPU) execBitDynamic(ir uint16) {
	opType := (ir >> 6) & 3
	bitReg := uint8((ir >> 9) & 7)
	mode, reg := splitEA(ir)
	c.after(func(cc *CPU) {
		cc.execBit(mode, reg, uint8(cc.reg.D[bitReg]&0x1F), opType)
	})
}

// execBit is shared by the static/dynamic forms once the bit number
// is known. Register destinations test/modify all 32 bits; memory
// destinations are always byte-wide, so the bit number is taken
// modulo 8.
func (c *CPU) execBit(mode, reg uint8, bit uint8, opType uint16) {
	sz := Long
	if mode != eaDataReg {
		sz = Byte
		bit &= 7
	}
	dst := c.resolveEA(mode, reg, sz)
	mask := uint32(1) << bit
	c.readOperand(dst, sz, func(cc *CPU, dv uint32) {
		if dv&mask == 0 {
			cc.reg.SR |= SRZero
		} else {
			cc.reg.SR &^= SRZero
		}
		var result uint32
		switch opType {
		case 0: // BTST
			result = dv
		case 1: // BCHG
			result = dv ^ mask
		case 2: // BCLR
			result = dv &^ mask
		case 3: // BSET
			result = dv | mask
		}
		if opType == 0 {
			return
		}
		cc.writeOperand(dst, sz, result, nil2)
	})
}

// execAddFamily and execSubFamily cover the register-destination and
// <ea>-destination forms of ADD/ADDA and SUB/SUBA (0xD000/0x9000
// top nibbles). Bit 8 selects direction, bits 6-7 select size (or
// address-register destination when both are set).
func (c *CPU) execAddFamily(ir uint16) { c.execAddSubCore(ir, true) }
func (c *CPU) execSubFamily(ir uint16) { c.execAddSubCore(ir, false) }

func (c *CPU) execAddSubCore(ir uint16, isAdd bool) {
	reg := uint8((ir >> 9) & 7)
	opmode := (ir >> 6) & 7
	mode, eaReg := splitEA(ir)

	if opmode == 3 || opmode == 7 {
		sz := Word
		if opmode == 7 {
			sz = Long
		}
		src := c.resolveSource(mode, eaReg, sz)
		c.readOperandImmediateAware(src, sz, func(cc *CPU, sv uint32) {
			if sz == Word {
				sv = signExtendWord(uint16(sv))
			}
			cc.after(func(cc2 *CPU) {
				an := cc2.reg.A[reg]
				var result uint32
				if isAdd {
					result = an + sv
				} else {
					result = an - sv
				}
				cc2.reg.A[reg] = result
			})
		})
		return
	}

	sz := sizeField2(opmode & 3)
	toMemory := opmode&4 != 0
	if !toMemory {
		src := c.resolveSource(mode, eaReg, sz)
		c.readOperandImmediateAware(src, sz, func(cc *CPU, sv uint32) {
			cc.after(func(cc2 *CPU) {
				dv := cc2.reg.D[reg] & sz.Mask()
				var result uint32
				if isAdd {
					result = dv + sv
					cc2.setFlagsAdd(sv, dv, result, sz)
				} else {
					result = dv - sv
					cc2.setFlagsSub(sv, dv, result, sz)
				}
				cc2.reg.D[reg] = (cc2.reg.D[reg] &^ sz.Mask()) | (result & sz.Mask())
			})
		})
		return
	}

	dst := c.resolveEA(mode, eaReg, sz)
	c.readOperand(dst, sz, func(cc *CPU, dv uint32) {
		sv := cc.reg.D[reg] & sz.Mask()
		var result uint32
		if isAdd {
			result = dv + sv
			cc.setFlagsAdd(sv, dv, result, sz)
		} else {
			result = dv - sv
			cc.setFlagsSub(sv, dv, result, sz)
		}
		cc.writeOperand(dst, sz, result, nil2)
	})
}

// execAddX and execSubX implement ADDX/SUBX Dy,Dx and ADDX/SUBX
// -(Ay),-(Ax): the extend-carrying forms that share ADD/SUB's top
// nibble but are distinguished by bits 4-5 being forced to zero.
func (c *CPU) execAddX(ir uint16) { c.execAddSubXCore(ir, true) }
func (c *CPU) execSubX(ir uint16) { c.execAddSubXCore(ir, false) }

func (c *CPU) execAddSubXCore(ir uint16, isAdd bool) {
	rx := uint8((ir >> 9) & 7)
	ry := uint8(ir & 7)
	sz := sizeField2((ir >> 6) & 3)
	useMemory := ir&0x08 != 0

	var src, dst operand
	if useMemory {
		src = c.resolveEA(eaPreDec, ry, sz)
		dst = c.resolveEA(eaPreDec, rx, sz)
	} else {
		src = operand{reg: ry}
		dst = operand{reg: rx}
	}
	c.readOperand(src, sz, func(cc *CPU, sv uint32) {
		cc.readOperand(dst, sz, func(cc2 *CPU, dv uint32) {
			x := uint32(0)
			if cc2.reg.SR&SRExtend != 0 {
				x = 1
			}
			var result uint32
			if isAdd {
				result = dv + sv + x
				cc2.setFlagsAddX(sv+x, dv, result, sz)
			} else {
				result = dv - sv - x
				cc2.setFlagsSubX(sv+x, dv, result, sz)
			}
			cc2.writeOperand(dst, sz, result, nil2)
		})
	})
}

// execAddqSubq implements ADDQ/SUBQ #data,<ea>: a 3-bit immediate (0
// means 8) embedded in the opcode, with no extension word at all.
func (c *CPU) execAddqSubq(ir uint16) {
	data := uint32((ir >> 9) & 7)
	if data == 0 {
		data = 8
	}
	isAdd := ir&0x0100 == 0
	mode, reg := splitEA(ir)
	sz := sizeField2((ir >> 6) & 3)
	c.after(func(cc *CPU) {
		dst := cc.resolveEA(mode, reg, sz)
		if mode == eaAddrReg {
			// ADDQ/SUBQ to An always operates on the full long word and
			// sets no flags.
			if isAdd {
				cc.reg.A[reg] += data
			} else {
				cc.reg.A[reg] -= data
			}
			return
		}
		cc.readOperand(dst, sz, func(cc2 *CPU, dv uint32) {
			var result uint32
			if isAdd {
				result = dv + data
				cc2.setFlagsAdd(data, dv, result, sz)
			} else {
				result = dv - data
				cc2.setFlagsSub(data, dv, result, sz)
			}
			cc2.writeOperand(dst, sz, result, nil2)
		})
	})
}

// execNegNotClrTst covers the single-operand NEG/NEGX/NOT/CLR/TST
// family (opcode top byte 0x44/0x46/0x40/0x42 with the low 6 bits an
// <ea>).
func (c *CPU) execNegNotClrTst(ir uint16) {
	sz := sizeField2((ir >> 6) & 3)
	mode, reg := splitEA(ir)
	kind := ir & 0xFF00
	dst := c.resolveEA(mode, reg, sz)
	c.after(func(cc *CPU) {
		switch kind {
		case 0x4200: // CLR
			cc.writeOperand(dst, sz, 0, func(cc2 *CPU) { cc2.setFlagsLogical(0, sz) })
		case 0x4A00: // TST
			cc.readOperand(dst, sz, func(cc2 *CPU, dv uint32) { cc2.setFlagsLogical(dv, sz) })
		case 0x4400: // NEG
			cc.readOperand(dst, sz, func(cc2 *CPU, dv uint32) {
				result := uint32(0) - dv
				cc2.setFlagsSub(dv, 0, result, sz)
				cc2.writeOperand(dst, sz, result, nil2)
			})
		case 0x4000: // NEGX
			cc.readOperand(dst, sz, func(cc2 *CPU, dv uint32) {
				x := uint32(0)
				if cc2.reg.SR&SRExtend != 0 {
					x = 1
				}
				result := uint32(0) - dv - x
				cc2.setFlagsSubX(dv+x, 0, result, sz)
				cc2.writeOperand(dst, sz, result, nil2)
			})
		case 0x4600: // NOT
			cc.readOperand(dst, sz, func(cc2 *CPU, dv uint32) {
				result := ^dv
				cc2.setFlagsLogical(result, sz)
				cc2.writeOperand(dst, sz, result, nil2)
			})
		}
	})
}
