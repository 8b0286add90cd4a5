package main

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	"golang.org/x/sync/errgroup"
)

// RunWindowed opens an ebiten window presenting the framebuffer and
// plays audio through oto, the pairing spec §1 calls out as the
// runner's job: "the front-end runner that opens windows and plays
// audio" sits entirely outside the core.
func (rt *Runtime) RunWindowed() error {
	if err := rt.runScriptIfConfigured(); err != nil {
		return err
	}

	width := rt.Machine.DMA.Beam.ClocksPerLine
	height := rt.Machine.DMA.Beam.LinesPerFrame

	player, err := newAudioPlayer(44100)
	if err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	defer player.Close()

	g := &gameWindow{
		rt:      rt,
		width:   width,
		height:  height,
		overlay: newMonitorOverlay(rt.Machine),
		player:  player,
	}

	ebiten.SetWindowSize(width*2, height*2)
	ebiten.SetWindowTitle("amigacore")
	ebiten.SetWindowResizable(true)

	var eg errgroup.Group
	eg.Go(func() error {
		player.Start()
		return nil
	})
	eg.Go(func() error {
		return ebiten.RunGame(g)
	})
	return eg.Wait()
}

// gameWindow implements ebiten.Game, stepping the machine by one
// frame per Update call and feeding the resulting stereo samples to the
// audio player's ring buffer.
type gameWindow struct {
	rt      *Runtime
	width   int
	height  int
	overlay *monitorOverlay
	player  *audioPlayer

	image *ebiten.Image
	mu    sync.Mutex

	clipboardOnce sync.Once
	clipboardOK   bool
}

func (g *gameWindow) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	g.handleInput()
	if !g.rt.stepFrame() {
		return ebiten.Termination
	}
	g.player.Feed(g.rt.lastSamples)
	return nil
}

func (g *gameWindow) Draw(screen *ebiten.Image) {
	if g.image == nil {
		g.image = ebiten.NewImage(g.width, g.height)
	}
	if frame := g.rt.lastFrame; frame != nil {
		rgba := make([]byte, g.width*g.height*4)
		for i := 0; i*3+2 < len(frame) && i*4+3 < len(rgba); i++ {
			rgba[i*4+0] = frame[i*3+0]
			rgba[i*4+1] = frame[i*3+1]
			rgba[i*4+2] = frame[i*3+2]
			rgba[i*4+3] = 0xFF
		}
		g.image.WritePixels(rgba)
	}
	screen.DrawImage(g.image, nil)
	g.overlay.draw(screen)
}

func (g *gameWindow) Layout(_, _ int) (int, int) { return g.width, g.height }

// handleInput forwards keyboard, clipboard paste, and joystick state
// into the machine's input surface, the same shape the teacher's
// ebiten backend uses for its own terminal keyboard feed.
func (g *gameWindow) handleInput() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.pasteClipboard()
	}

	for _, key := range inpututil.AppendJustPressedKeys(nil) {
		g.rt.Machine.KeyEvent(ebitenKeyToScancode(key), true)
	}
	for _, key := range inpututil.AppendJustReleasedKeys(nil) {
		g.rt.Machine.KeyEvent(ebitenKeyToScancode(key), false)
	}

	var joy uint8
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		joy |= 1 << 0
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		joy |= 1 << 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		joy |= 1 << 2
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		joy |= 1 << 3
	}
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		joy |= 1 << 4
	}
	g.rt.Machine.JoyEvent(joy)
}

// pasteClipboard converts clipboard text into a sequence of key
// events, carrying forward the teacher's paste-into-emulated-machine
// feature (video_backend_ebiten.go's Ctrl+Shift+V handler).
func (g *gameWindow) pasteClipboard() {
	g.clipboardOnce.Do(func() {
		g.clipboardOK = clipboard.Init() == nil
	})
	if !g.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	if len(data) > 4096 {
		data = data[:4096]
	}
	for _, b := range data {
		g.rt.Machine.KeyEvent(b, true)
		g.rt.Machine.KeyEvent(b, false)
	}
}

// ebitenKeyToScancode maps the printable ASCII range directly and
// falls back to 0 (no-op) for anything this machine's simplified
// keyboard protocol doesn't model; a richer keymap is a front-end
// concern, not the core's.
func ebitenKeyToScancode(key ebiten.Key) uint8 {
	name := key.String()
	if len(name) == 1 {
		return name[0]
	}
	return 0
}
