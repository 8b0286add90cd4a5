package cpu

// execCmpEorFamily covers the 0xB000 top nibble: CMP/CMPA (opmode
// bits select size or address-register compare) and EOR (opmode bits
// 4-6 with a register destination).
func (c *CPU) execCmpEorFamily(ir uint16) {
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
				result := an - sv
				cc2.setFlagsCmp(sv, an, result, Long)
			})
		})
		return
	}

	sz := sizeField2(opmode & 3)
	isEOR := opmode&4 != 0
	if !isEOR {
		src := c.resolveSource(mode, eaReg, sz)
		c.readOperandImmediateAware(src, sz, func(cc *CPU, sv uint32) {
			cc.after(func(cc2 *CPU) {
				dv := cc2.reg.D[reg] & sz.Mask()
				result := dv - sv
				cc2.setFlagsCmp(sv, dv, result, sz)
			})
		})
		return
	}
	src := c.resolveEA(mode, eaReg, sz)
	c.readOperand(src, sz, func(cc *CPU, dv uint32) {
		sv := cc.reg.D[reg] & sz.Mask()
		result := dv ^ sv
		cc.setFlagsLogical(result, sz)
		cc.writeOperand(src, sz, result, nil2)
	})
}

// execCmpm implements CMPM (An)+,(An)+ — both operands post-
// increment, with no flag-disturbing side effect beyond the compare.
func (c *CPU) execCmpm(ir uint16) {
	sz := sizeField2((ir >> 6) & 3)
	srcReg := uint8(ir & 7)
	dstReg := uint8((ir >> 9) & 7)
	src := c.resolveEA(eaPostInc, srcReg, sz)
	dst := c.resolveEA(eaPostInc, dstReg, sz)
	c.readOperand(src, sz, func(cc *CPU, sv uint32) {
		cc.readOperand(dst, sz, func(cc2 *CPU, dv uint32) {
			result := dv - sv
			cc2.setFlagsCmp(sv, dv, result, sz)
		})
	})
}
