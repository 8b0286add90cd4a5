package video

// Register offsets within the video coprocessor's slice of the custom-
// register window, assigned by internal/machine's dispatch table. The
// bitplane pointer/count registers live in internal/dma since fetching
// is that coprocessor's job; this package only owns what it resolves
// pixels from: the playfield-control bits, the 32 (or 256, once
// Extended) palette entries, and the collision register.
const (
	RegBPLCON0 = 0x00 // bitplane count, hi-res, hold-and-modify, dual-playfield
	RegBPLCON1 = 0x02 // PF1/PF2 scroll delay, one nibble each
	RegBPLCON2 = 0x04 // playfield-2-front priority, sprite-above-playfield bits
	RegBPLCON3 = 0x06 // extra half-bright, palette bank select, extended-palette enable

	RegCLXDAT = 0x10 // collision register, read-clears

	RegColor00 = 0x40 // COLOR00-COLOR1F, one word each, 12-bit RGB
)

// WriteRegister applies a CPU- or copper-originated register write.
// Unlike internal/dma's custom-register surface, the video coprocessor
// has no in-progress multi-cycle operation whose visibility the write-
// deferral open question concerns, so writes here take effect
// immediately rather than being queued.
func (c *Chip) WriteRegister(offset uint32, val uint16) {
	switch {
	case offset == RegBPLCON0:
		c.Control.SetBitplaneCount(int(val & 0x7))
		c.Control.HiRes = val&0x8000 != 0
		c.Control.HoldAndModify = val&0x0800 != 0
		c.Control.DualPlayfield = val&0x0400 != 0
	case offset == RegBPLCON1:
		c.Planes.PF1Scroll = uint8(val) & 0xF
		c.Planes.PF2Scroll = uint8(val>>4) & 0xF
	case offset == RegBPLCON2:
		c.Control.Playfield2Front = val&0x40 != 0
		for i := 0; i < 4; i++ {
			c.Control.SpriteAbovePlayfield[i] = val&(1<<uint(i)) != 0
		}
	case offset == RegBPLCON3:
		c.Control.ExtraHalfBright = val&0x80 != 0
		c.Palette.Extended = val&0x01 != 0
		c.Palette.Bank = uint8(val>>13) & 0x7
	case offset >= RegColor00 && offset < RegColor00+32*2:
		c.Palette.WriteEntry12(int(offset-RegColor00)/2, val)
	}
}

// ReadRegister returns a readable register's live value. Only the
// collision register is readable on the base variant; everything else
// in this coprocessor's window is write-only hardware.
func (c *Chip) ReadRegister(offset uint32) uint16 {
	switch offset {
	case RegCLXDAT:
		return c.ReadCollision()
	default:
		return 0
	}
}
