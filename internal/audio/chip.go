// Package audio implements the four-channel PCM audio engine, the
// floppy MFM disk controller, and the shared interrupt controller
// (spec §4.4).
package audio

// Coprocessor ties the four channels, the disk controller, and the
// interrupt controller together and is ticked once per color clock by
// the top-level orchestrator, mirroring how internal/dma and
// internal/video are driven.
type Coprocessor struct {
	Channels [4]Channel
	Disk     DiskController
	IRQ      InterruptController
}

// Stereo is one sample period's resolved output: channels 0+3 pan
// left, 1+2 pan right (spec §6 "cross-channel panning fixed").
type Stereo struct {
	Left, Right int16
}

// Tick advances every channel by one color clock, applies
// cross-channel volume/period modulation, raises any channel-done
// interrupts, and returns the mixed stereo sample for this clock. The
// disk controller is not advanced here; FeedDiskBit drives it.
func (c *Coprocessor) Tick(mem ChipMemory) Stereo {
	raw := [4]int8{}
	for i := range c.Channels {
		ch := &c.Channels[i]
		ch.silenced = false
	}
	for i := range c.Channels {
		ch := &c.Channels[i]
		if i > 0 {
			prev := &c.Channels[i-1]
			if ch.ModulatePeriod {
				ch.Period = uint16(int(prev.Sample())) & 0x1FF
				prev.silenced = true
			}
			if ch.ModulateVolume {
				ch.Volume = uint8(prev.Sample())
				prev.silenced = true
			}
		}
		raw[i] = ch.Tick(mem)
		if ch.Done {
			c.IRQ.Raise(doneBit(i))
		}
	}

	var left, right int32
	left += scaled(raw[0], c.Channels[0].Volume, c.Channels[0].silenced)
	left += scaled(raw[3], c.Channels[3].Volume, c.Channels[3].silenced)
	right += scaled(raw[1], c.Channels[1].Volume, c.Channels[1].silenced)
	right += scaled(raw[2], c.Channels[2].Volume, c.Channels[2].silenced)

	return Stereo{Left: clamp16(left), Right: clamp16(right)}
}

func scaled(sample int8, volume uint8, silenced bool) int32 {
	if silenced {
		return 0
	}
	v := int32(volume)
	if v > 64 {
		v = 64
	}
	return int32(sample) * v / 64
}

func clamp16(v int32) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}

func doneBit(channel int) uint16 {
	switch channel {
	case 0:
		return IRQAudio0
	case 1:
		return IRQAudio1
	case 2:
		return IRQAudio2
	default:
		return IRQAudio3
	}
}

// FeedDiskBit advances the disk controller by one MFM bitstream bit
// and raises the disk-block interrupt on completion.
func (c *Coprocessor) FeedDiskBit(mem ChipMemory, bit uint8) {
	c.Disk.FeedBit(mem, bit)
	if c.Disk.Done {
		c.IRQ.Raise(IRQDiskBlock)
	}
}
