package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/amigacore/coreemu/internal/machine"
)

var whiteOverlay = color.White

// monitorOverlay draws a one-line register/tick readout over the
// framebuffer, replacing the teacher's hand-rolled bitmap font
// (debug_overlay.go) with the stock face x/image already ships.
type monitorOverlay struct {
	m      *machine.Machine
	face   *basicfont.Face
	hidden bool
}

func newMonitorOverlay(m *machine.Machine) *monitorOverlay {
	return &monitorOverlay{m: m, face: basicfont.Face7x13}
}

func (o *monitorOverlay) toggle() { o.hidden = !o.hidden }

func (o *monitorOverlay) draw(screen *ebiten.Image) {
	if o.hidden {
		return
	}
	r := o.m.Registers()
	line := fmt.Sprintf("pc=%06X sr=%04X d0=%08X a7=%08X tick=%d",
		r.PC, r.SR, r.D[0], r.A[7], o.m.MasterTick())
	text.Draw(screen, line, o.face, 4, 12, whiteOverlay)
}
