// Package video implements the bitplane/sprite display coprocessor: it
// consumes the words the DMA coprocessor fetches and produces one
// palette-indexed, then RGB-resolved, pixel per color clock.
package video

// PlaneInput is what the orchestrator hands the coprocessor on a cycle
// where the DMA coprocessor delivered a bitplane word.
type PlaneInput struct {
	Valid bool
	Word  uint16
	Plane int
}

// SpriteInput is what the orchestrator hands the coprocessor on a cycle
// where the DMA coprocessor delivered a sprite word.
type SpriteInput struct {
	Valid   bool
	Word    uint16
	Sprite  int
	Control bool // this word is a position/control word, not image data
}

// Pixel is one color clock's worth of resolved output.
type Pixel struct {
	R, G, B uint8
	Blank   bool
	Border  bool
}
