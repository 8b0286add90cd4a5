package cpu

// execMove implements the MOVE.{B,W,L} family: 00 SS DDD MMM mmm rrr,
// where SS picks the size (01=byte, 11=word, 10=long), DDD/MMM are the
// destination register/mode and mmm/rrr the source mode/register.
func (c *CPU) execMove(ir uint16) {
	var sz Size
	switch (ir >> 12) & 3 {
	case 1:
		sz = Byte
	case 3:
		sz = Word
	case 2:
		sz = Long
	default:
		c.illegalInstruction()
		return
	}
	srcMode, srcReg := uint8((ir>>3)&7), uint8(ir&7)
	dstMode, dstReg := uint8((ir>>6)&7), uint8((ir>>9)&7)

	src := c.resolveSource(srcMode, srcReg, sz)
	c.readOperandImmediateAware(src, sz, func(cc *CPU, val uint32) {
		dst := cc.resolveEA(dstMode, dstReg, sz)
		cc.writeOperand(dst, sz, val, func(cc2 *CPU) {
			if dstMode != eaAddrReg {
				cc2.setFlagsLogical(val, sz)
			}
		})
	})
}

// resolveSource handles the one case resolveEA deliberately leaves
// blank: immediate source operands, which have no address of their
// own.
func (c *CPU) resolveSource(mode, reg uint8, sz Size) operand {
	if mode == eaExtended && reg == eaImmediate {
		return operand{addr: c.immediateValue(sz), isMemory: false, reg: 0xFF}
	}
	return c.resolveEA(mode, reg, sz)
}

// readOperandImmediateAware treats reg==0xFF as "the resolved value is already
// sitting in addr" -- the immediate case resolveSource produces.
func (c *CPU) readOperandImmediateAware(op operand, sz Size, then func(*CPU, uint32)) {
	if !op.isMemory && op.reg == 0xFF {
		then(c, op.addr)
		return
	}
	c.readOperand(op, sz, then)
}

// execMoveq implements MOVEQ #data,Dn: the 8-bit immediate lives in
// the opcode itself, so there is no extension word and the whole
// instruction is free beyond the mandatory boundary refill.
func (c *CPU) execMoveq(ir uint16) {
	reg := uint8((ir >> 9) & 7)
	data := signExtendByte(uint8(ir & 0xFF))
	c.after(func(cc *CPU) {
		cc.reg.D[reg] = data
		cc.setFlagsLogical(data, Long)
	})
}

// execLea implements LEA <ea>,An: the effective address itself
// becomes the value, so no data read ever happens.
func (c *CPU) execLea(ir uint16) {
	mode, reg := splitEA(ir)
	an := uint8((ir >> 9) & 7)
	op := c.resolveEA(mode, reg, Long)
	c.after(func(cc *CPU) {
		cc.reg.A[an] = op.addr
	})
}

// execMoveMulti implements MOVEM: a register-list transfer between
// memory and the registers named in the mask word (spec's "four-
// channel... multi-register block transfer" timing family — each
// register moved costs one more timed access, chained through the
// queue one register at a time).
func (c *CPU) execMoveMulti(ir uint16, toMemory bool) {
	sz := Word
	if ir&0x0040 != 0 {
		sz = Long
	}
	mode, reg := splitEA(ir)
	mask := c.consumeExtensionWord()

	c.after(func(cc *CPU) {
		op := cc.resolveEA(mode, reg, sz)
		predec := mode == eaPreDec
		addr := op.addr

		// Pre-decrement MOVEM walks the mask low-bit-first too; only the
		// bit-to-register mapping differs (bit0=A7..bit7=A0,bit8=D7..
		// bit15=D0 instead of the usual D0..D7,A0..A7).
		var order []uint8
		for i := 0; i < 16; i++ {
			if mask&(1<<uint(i)) != 0 {
				order = append(order, uint8(i))
			}
		}

		var step func(i int)
		step = func(i int) {
			if i >= len(order) {
				if predec {
					cc.reg.A[reg] = addr
				}
				return
			}
			regNum := order[i]
			regVal := func() uint32 {
				if predec {
					// Pre-decrement MOVEM numbers registers A7..A0,D7..D0 and
					// reads source registers in that same reverse order.
					if regNum < 8 {
						return cc.reg.A[7-regNum]
					}
					return cc.reg.D[15-regNum]
				}
				if regNum < 8 {
					return cc.reg.D[regNum]
				}
				return cc.reg.A[regNum-8]
			}
			setReg := func(v uint32) {
				if regNum < 8 {
					cc.reg.D[regNum] = v
				} else {
					cc.reg.A[regNum-8] = v
				}
			}

			if toMemory {
				if predec {
					addr -= sz.Bytes()
				}
				at := addr
				cc.writeOperand(operand{isMemory: true, addr: at}, sz, regVal(), func(cc2 *CPU) {
					if !predec {
						addr += sz.Bytes()
					}
					step(i + 1)
				})
				return
			}
			at := addr
			cc.readOperand(operand{isMemory: true, addr: at}, sz, func(cc2 *CPU, val uint32) {
				if sz == Word {
					val = signExtendWord(uint16(val))
				}
				setReg(val)
				addr += sz.Bytes()
				step(i + 1)
			})
		}
		step(0)
	})
}
