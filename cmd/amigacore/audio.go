package main

import (
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/amigacore/coreemu/internal/audio"
)

// audioPlayer buffers stereo samples produced once per frame by
// internal/machine.TickFrame and drains them into oto's pull-based
// Read callback, the same ring-buffer-behind-a-Reader shape as the
// teacher's OtoPlayer, adapted from mono float32 to stereo int16LE
// since internal/audio.Stereo already is a signed 16-bit pair.
type audioPlayer struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	pending []audio.Stereo
}

func newAudioPlayer(sampleRate int) (*audioPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   4,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &audioPlayer{ctx: ctx}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Feed appends one frame's worth of samples to the pending queue.
func (p *audioPlayer) Feed(samples []audio.Stereo) {
	if len(samples) == 0 {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, samples...)
	p.mu.Unlock()
}

// Read implements io.Reader, draining pending samples as interleaved
// signed 16-bit little-endian stereo frames, and filling with silence
// once the queue runs dry rather than blocking.
func (p *audioPlayer) Read(out []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(out) / 4
	if n > len(p.pending) {
		n = len(p.pending)
	}
	for i := 0; i < n; i++ {
		s := p.pending[i]
		out[i*4+0] = byte(uint16(s.Left))
		out[i*4+1] = byte(uint16(s.Left) >> 8)
		out[i*4+2] = byte(uint16(s.Right))
		out[i*4+3] = byte(uint16(s.Right) >> 8)
	}
	for i := n * 4; i < len(out); i++ {
		out[i] = 0
	}
	p.pending = p.pending[n:]
	return len(out), nil
}

func (p *audioPlayer) Start() {
	p.player.Play()
}

func (p *audioPlayer) Close() {
	_ = p.player.Close()
}
