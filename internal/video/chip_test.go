package video

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitplanesResolveToPaletteIndex(t *testing.T) {
	var c Chip
	c.Control.BitplaneCount = 2
	c.Palette.WriteEntry12(3, 0x0F00) // index 3 (binary 11) -> red
	c.BeginLine()

	// plane fetches land outside the display window, ahead of the
	// shift registers actually being clocked out as pixels.
	c.Step(PlaneInput{Valid: true, Plane: 0, Word: 0x8000}, SpriteInput{}, 0, false)
	c.Step(PlaneInput{Valid: true, Plane: 1, Word: 0x8000}, SpriteInput{}, 0, false)

	px := c.Step(PlaneInput{}, SpriteInput{}, 1, true)
	require.Equal(t, uint8(0xFF), px.R)
	require.Equal(t, uint8(0), px.G)
}

func TestBlankOutsideDisplayWindow(t *testing.T) {
	var c Chip
	px := c.Step(PlaneInput{}, SpriteInput{}, 0, false)
	require.True(t, px.Blank)
	require.True(t, px.Border)
}

func TestSpriteZeroHitQuirkAtX255(t *testing.T) {
	var c Chip
	c.Control.BitplaneCount = 0
	c.BeginLine()

	lo := c.Sprites.Unit(0)
	lo.HStart = 255
	lo.LoadData(0x8000, 0)

	px := c.Step(PlaneInput{}, SpriteInput{}, 255, true)
	// the quirk: a hit exactly at X=255 never registers, so the
	// background color (palette index 0) shows through instead.
	r0, g0, b0 := c.Palette.Lookup(0)
	require.Equal(t, r0, px.R)
	require.Equal(t, g0, px.G)
	require.Equal(t, b0, px.B)
}

func TestHoldAndModifyLoadsPaletteColor(t *testing.T) {
	var c Chip
	c.Control.BitplaneCount = 6
	c.Control.HoldAndModify = true
	c.Palette.WriteEntry12(5, 0x0F00) // red base color at index 5
	c.BeginLine()

	// ctrl bits (planes 4,5) = 00 selects data (planes 0-3) = 5 as a
	// fresh palette load.
	c.Step(PlaneInput{Valid: true, Plane: 0, Word: 0x8000}, SpriteInput{}, 0, false)
	c.Step(PlaneInput{Valid: true, Plane: 2, Word: 0x8000}, SpriteInput{}, 0, false)
	px := c.Step(PlaneInput{}, SpriteInput{}, 1, true)
	require.Equal(t, uint8(0xFF), px.R)
}

func TestCollisionRegisterClearsOnRead(t *testing.T) {
	var c Chip
	c.Control.BitplaneCount = 1
	c.BeginLine()
	c.Sprites.markCollision(1)
	require.Equal(t, uint16(1), c.ReadCollision())
	require.Equal(t, uint16(0), c.ReadCollision())
}

func TestExtraHalfBrightHalvesUpperBank(t *testing.T) {
	var c Chip
	c.Control.BitplaneCount = 6
	c.Control.ExtraHalfBright = true
	c.Palette.WriteEntry12(32, 0x0FF0) // full-bright yellow; the 12-bit write folds index 32 onto entry 0
	r, g, b := c.Palette.Halve(32)
	require.Equal(t, uint8(0x7F), r)
	require.Equal(t, uint8(0x7F), g)
	require.Equal(t, uint8(0x00), b)
}
