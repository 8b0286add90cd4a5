package dma

// Beam is the horizontal/vertical position counter the DMA coprocessor,
// copper, and video coprocessor all read. It advances one color clock
// per Step call (spec §4.2 "Beam counter").
type Beam struct {
	H, V int

	LinesPerFrame  int // short-frame line count (312 PAL, 262 NTSC), set by Reset; long interlaced frames leave it unchanged
	ClocksPerLine  int // short-line clock count (227), set by Reset alongside LinesPerFrame
	longFrameLines int
	shortLines     int
	longClocks     int
	shortClocks    int

	longFrame bool // alternates every vertical blank when interlace is active
	Interlace bool
}

// NewBeam configures a beam from the given long/short line and clock
// counts; NewPALBeam and NewNTSCBeam pass the two stock timings.
func NewBeam(longLines, shortLines, longClocks, shortClocks int) *Beam {
	b := &Beam{
		longFrameLines: longLines,
		shortLines:     shortLines,
		longClocks:     longClocks,
		shortClocks:    shortClocks,
	}
	b.Reset()
	return b
}

// NewPALBeam and NewNTSCBeam are the two stock timings spec §4.2 names.
func NewPALBeam() *Beam  { return NewBeam(313, 312, 228, 227) }
func NewNTSCBeam() *Beam { return NewBeam(263, 262, 228, 227) }

func (b *Beam) Reset() {
	b.H, b.V = 0, 0
	b.longFrame = false
	b.LinesPerFrame = b.shortLines
	b.ClocksPerLine = b.shortClocks
}

// linesThisFrame and clocksThisLine account for the long/short toggle
// interlaced fields use to keep an odd number of lines per pair of
// fields.
func (b *Beam) linesThisFrame() int {
	if b.Interlace && b.longFrame {
		return b.longFrameLines
	}
	return b.shortLines
}

func (b *Beam) clocksThisLine() int {
	if b.Interlace && b.longFrame && b.V == 0 {
		return b.longClocks
	}
	return b.shortClocks
}

// atVBlankStart reports whether the beam is about to wrap from the
// last line to line 0, the instant the copper restarts its list
// (spec §4.2 "copper restarts ... every vertical blank").
func (b *Beam) atVBlankStart() bool {
	return b.V == b.linesThisFrame()-1 && b.H == b.clocksThisLine()-1
}

// Step advances the beam by one color clock and reports whether this
// step crossed into vertical blank (H and V both wrapped to 0).
func (b *Beam) Step() (enteredVBlank bool) {
	wrappedV := b.atVBlankStart()
	b.H++
	if b.H >= b.clocksThisLine() {
		b.H = 0
		b.V++
		if b.V >= b.linesThisFrame() {
			b.V = 0
			if b.Interlace {
				b.longFrame = !b.longFrame
			}
		}
	}
	return wrappedV
}

// Matches implements the WAIT/SKIP comparison: masked bits of the
// current beam position equal the masked compare value (spec §4.2
// "Copper").
func (b *Beam) Matches(compareV, compareH, maskV, maskH uint16) bool {
	return uint16(b.V)&maskV == compareV&maskV && uint16(b.H)&maskH == compareH&maskH
}
