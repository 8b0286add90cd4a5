package video

// Control mirrors the playfield-control registers spec §3 calls out:
// bitplane count, resolution, dual-playfield mode, hold-and-modify,
// extra half-brightness, and sprite/playfield priority.
type Control struct {
	BitplaneCount int // 0-6, clamped on write
	HiRes         bool

	DualPlayfield    bool
	Playfield2Front  bool // dual-playfield priority: PF2 drawn above PF1 when set
	HoldAndModify    bool
	ExtraHalfBright  bool

	// SpriteAbovePlayfield[i] gives sprite pair i priority over both
	// playfields; when false the pair draws behind them instead.
	SpriteAbovePlayfield [4]bool
}

// SetBitplaneCount clamps to the legal range (spec §4.2's edge case,
// shared with the DMA coprocessor's own bitplane-count register).
func (c *Control) SetBitplaneCount(n int) {
	switch {
	case n < 0:
		n = 0
	case n > 6:
		n = 6
	}
	c.BitplaneCount = n
}
