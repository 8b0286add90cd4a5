package video

// Chip is the video coprocessor: it owns bitplane shift registers,
// sprite units, the palette, and the playfield-control registers, and
// resolves one pixel per color clock from whatever the DMA
// coprocessor delivered this cycle (spec §4.3 "Contract").
type Chip struct {
	Planes   Bitplanes
	Sprites  Sprites
	Palette  Palette
	Control  Control

	// Each sprite's position and image words arrive one at a time;
	// these hold the first word of a pair until its partner shows up.
	pendingWord    [numSprites]uint16
	havePending    [numSprites]bool
	loadedControl  [numSprites]bool // true once a sprite has a position latch, so data fetches can begin

	hamColor uint32 // running hold-and-modify accumulator, carried across a line
}

// BeginLine resets per-line composition state. Hold-and-modify starts
// each line from the background color, per how the real chip seeds
// its HAM accumulator at the start of every display line.
func (c *Chip) BeginLine() {
	r, g, b := c.Palette.Lookup(0)
	c.hamColor = pack(r, g, b)
}

// feedSprite buffers one delivered sprite word and, once its partner
// has arrived, applies the pair to the addressed sprite.
func (c *Chip) feedSprite(in SpriteInput) {
	if !in.Valid || in.Sprite < 0 || in.Sprite >= numSprites {
		return
	}
	idx := in.Sprite
	if !c.havePending[idx] {
		c.pendingWord[idx] = in.Word
		c.havePending[idx] = true
		return
	}
	c.havePending[idx] = false
	unit := c.Sprites.Unit(idx)
	if in.Control {
		unit.LoadControl(c.pendingWord[idx], in.Word)
		c.loadedControl[idx] = true
	} else {
		unit.LoadData(c.pendingWord[idx], in.Word)
	}
}

// Step resolves one color clock's pixel. h is this cycle's horizontal
// beam position, used for sprite X comparison.
func (c *Chip) Step(plane PlaneInput, sprite SpriteInput, h int, displayWindowActive bool) Pixel {
	if plane.Valid {
		c.Planes.Load(plane.Plane, plane.Word)
	}
	c.feedSprite(sprite)

	if !displayWindowActive {
		return Pixel{Blank: true, Border: true}
	}

	bits := c.Planes.Shift(c.Control.BitplaneCount)
	pfIndex := c.resolvePlayfield(bits)

	spriteColor, pairIdx, spriteHit := c.Sprites.sample(h)
	if spriteHit && pfIndex != 0 {
		c.Sprites.markCollision(1 << uint(pairIdx))
	}

	var r, g, b uint8
	switch {
	case c.Control.HoldAndModify:
		r, g, b = c.resolveHAM(bits)
	case spriteHit && c.Control.SpriteAbovePlayfield[pairIdx]:
		r, g, b = c.Palette.Lookup(32 + int(spriteColor) + 4*(pairIdx))
	case pfIndex != 0:
		r, g, b = c.resolvePlayfieldColor(pfIndex)
	case spriteHit:
		r, g, b = c.Palette.Lookup(32 + int(spriteColor) + 4*(pairIdx))
	default:
		r, g, b = c.Palette.Lookup(0)
	}

	return Pixel{R: r, G: g, B: b}
}

// ReadCollision returns the accumulated sprite/playfield collision
// bits and clears the register, per the read-clears convention.
func (c *Chip) ReadCollision() uint16 { return c.Sprites.Collision() }

// resolvePlayfield folds the six raw plane bits into a single palette
// index, or (in dual-playfield mode) decides which of the two logical
// playfields owns this pixel and returns its index with bit 6 used as
// a playfield-2 marker so resolvePlayfieldColor can tell them apart.
func (c *Chip) resolvePlayfield(bits [numPlanes]uint8) int {
	if !c.Control.DualPlayfield {
		idx := 0
		for i := 0; i < numPlanes; i++ {
			idx |= int(bits[i]) << uint(i)
		}
		return idx
	}

	pf1 := int(bits[0]) | int(bits[2])<<1 | int(bits[4])<<2
	pf2 := int(bits[1]) | int(bits[3])<<1 | int(bits[5])<<2

	pf1Set := pf1 != 0
	pf2Set := pf2 != 0
	switch {
	case pf1Set && pf2Set:
		if c.Control.Playfield2Front {
			return pf2 | 1<<6
		}
		return pf1
	case pf2Set:
		return pf2 | 1<<6
	case pf1Set:
		return pf1
	default:
		return 0
	}
}

func (c *Chip) resolvePlayfieldColor(idx int) (r, g, b uint8) {
	isPF2 := idx&(1<<6) != 0
	plain := idx &^ (1 << 6)
	paletteIndex := plain
	if isPF2 {
		paletteIndex += 8 // playfield 2 draws from the second bank of 8 palette entries
	}
	if c.Control.ExtraHalfBright && c.Control.BitplaneCount == 6 && paletteIndex >= 32 {
		return c.Palette.Halve(paletteIndex)
	}
	return c.Palette.Lookup(paletteIndex)
}

// resolveHAM implements hold-and-modify: the top two plane bits select
// whether the bottom four bits load a fresh palette index or modify
// one channel of the previous pixel (spec §4.3).
func (c *Chip) resolveHAM(bits [numPlanes]uint8) (r, g, b uint8) {
	ctrl := bits[4]<<1 | bits[5]
	data := int(bits[0]) | int(bits[1])<<1 | int(bits[2])<<2 | int(bits[3])<<3
	nibble := uint8(data<<4) | uint8(data)

	pr := uint8(c.hamColor >> 16)
	pg := uint8(c.hamColor >> 8)
	pb := uint8(c.hamColor)

	switch ctrl {
	case 0b00:
		pr, pg, pb = c.Palette.Lookup(data)
	case 0b01:
		pb = nibble
	case 0b10:
		pr = nibble
	case 0b11:
		pg = nibble
	}
	c.hamColor = pack(pr, pg, pb)
	return pr, pg, pb
}
