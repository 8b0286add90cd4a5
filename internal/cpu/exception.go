package cpu

// enterException raises the numbered vector: it stacks a return frame
// on the supervisor stack, switches to supervisor mode, masks further
// interrupts at or below the given level (autovectors only), clears
// trace, and redirects fetching to the handler (spec §4.5).
//
// Group-0 vectors (bus/address error) push the 14-byte extended frame,
// whose status word and access address are written as zero; every
// other vector pushes the plain 6-byte SR/PC frame.
func (c *CPU) enterException(vector uint8, isInterrupt bool) {
	// A synchronous fault (illegal instruction, privilege violation,
	// zero divide) calls RaiseBusError to record the vector and then
	// enters it directly in the same Tick; clearing pendErr here
	// (rather than only in enterNextInstruction's own consumption
	// branch) stops that same fault from being re-raised a second time
	// on the very next Tick, before the handler's first instruction runs.
	c.pendErr = nil

	savedSR := c.reg.SR
	savedPC := c.reg.PC

	if !c.reg.Supervisor() {
		c.reg.USP = c.reg.A[7]
		c.reg.A[7] = c.reg.SSP
	}
	c.reg.SR |= SRSuper
	c.reg.SR &^= SRTrace
	if isInterrupt {
		c.reg.setIPL(vector - VectorAutovectorBase)
	}

	pushLong := func(val uint32, then func(*CPU)) {
		addr := c.reg.A[7] - 4
		c.reg.A[7] = addr
		c.enqueueWrite(addr, Word, (val>>16)&0xFFFF, func(cc *CPU) {
			cc.enqueueWrite(addr+2, Word, val&0xFFFF, then)
		})
	}
	pushWord := func(val uint16, then func(*CPU)) {
		addr := c.reg.A[7] - 2
		c.reg.A[7] = addr
		c.enqueueWrite(addr, Word, uint32(val), then)
	}

	finish := func(cc *CPU) {
		vecAddr := uint32(vector) * 4
		cc.enqueueRead(vecAddr, Long, func(cc2 *CPU, target uint32) {
			cc2.invalidatePipeline(target, nil)
		})
	}

	if isGroup0(vector) {
		// Extended frame: fault status word, fault address, instruction
		// register, then the standard PC/SR pair (14 bytes total). No
		// component in this tree raises a real bus/address fault today
		// (RaiseBusError exists for a future fabric decode-miss path),
		// so the status-word bit layout here is a structural placeholder
		// rather than a verified encoding.
		pushWord(0, func(cc *CPU) {
			pushLong(0, func(cc2 *CPU) {
				pushWord(cc2.ir, func(cc3 *CPU) {
					pushLong(savedPC, func(cc4 *CPU) {
						pushWord(savedSR, finish)
					})
				})
			})
		})
		return
	}

	pushLong(savedPC, func(cc *CPU) {
		pushWord(savedSR, finish)
	})
}

// checkException reports whether a fault is pending. enterNextInstruction
// tests pendErr directly and does not call it; it is kept as a small
// indirection point so a future watchpoint/breakpoint layer can veto
// entry without touching the core sequencing logic.
func (c *CPU) checkException() bool {
	return c.pendErr != nil
}
