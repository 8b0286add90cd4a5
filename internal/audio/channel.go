package audio

// ChannelState names where one audio channel sits in its DMA-driven
// lifecycle (spec §4.4 "A channel runs as a three-state machine").
type ChannelState int

const (
	StateIdle ChannelState = iota
	StatePrefetch
	StateRunning
)

// Channel is one of the four identical PCM voices. Period and length
// are color-clock and word counters respectively; Volume is 6-bit
// (0-64). ModulatePeriod/ModulateVolume borrow the previous channel's
// current sample to drive this channel's period or volume each tick,
// per the documented cross-channel modulation feature — the source
// channel is silenced in the final mix when either is set.
type Channel struct {
	State ChannelState

	Enabled  bool
	Period   uint16
	Length   uint16
	Volume   uint8
	Pointer  uint32 // software-set DMA start address
	Loop     bool

	ModulatePeriod bool
	ModulateVolume bool

	periodCounter int
	lengthCounter uint16
	hwPointer     uint32

	sampleLo, sampleHi int8
	highHalf           bool

	output    int8
	Done      bool // latched true on the cycle the channel-done condition fires
	silenced  bool // true this cycle because another channel modulates from it
}

// SetEnabled mirrors a software write to this channel's DMA-enable
// bit. Enabling from idle begins the prefetch sequence; disabling at
// any time returns the channel to idle and silences it.
func (c *Channel) SetEnabled(mem ChipMemory, on bool) {
	c.Enabled = on
	if !on {
		c.State = StateIdle
		c.output = 0
		return
	}
	if c.State == StateIdle {
		c.prefetch(mem)
	}
}

// prefetch performs the documented prefetch step: latch the length
// counter, fetch the first word, and set the hardware pointer copy
// past it (spec §4.4). Real hardware spends DMA slots doing this;
// this model performs it synchronously on the enabling cycle, the
// same simplification the DMA coprocessor's copper applies to its own
// two-word fetch.
func (c *Channel) prefetch(mem ChipMemory) {
	c.lengthCounter = c.Length
	word := mem.ReadWord(c.Pointer)
	c.sampleHi = int8(word >> 8)
	c.sampleLo = int8(word)
	c.hwPointer = c.Pointer + 2
	if c.lengthCounter > 0 {
		c.lengthCounter--
	}
	c.highHalf = false
	c.periodCounter = int(c.Period)
	c.State = StateRunning
}

// Tick advances the channel by one color clock and returns this
// cycle's signed 8-bit output sample.
func (c *Channel) Tick(mem ChipMemory) int8 {
	c.Done = false
	if c.State != StateRunning {
		return 0
	}

	c.periodCounter--
	if c.periodCounter > 0 {
		return c.output
	}

	if c.highHalf {
		c.output = c.sampleHi
	} else {
		c.output = c.sampleLo
	}
	c.highHalf = !c.highHalf

	if !c.highHalf {
		// both bytes of the current word consumed; fetch the next one
		// or wind down.
		if c.lengthCounter > 0 {
			word := mem.ReadWord(c.hwPointer)
			c.sampleHi = int8(word >> 8)
			c.sampleLo = int8(word)
			c.hwPointer += 2
			c.lengthCounter--
		} else if c.Loop {
			c.prefetch(mem)
		} else {
			c.State = StateIdle
			c.Done = true
		}
	}

	c.periodCounter = int(c.Period)
	return c.output
}

// Sample returns the channel's last computed output without advancing
// it, honoring silencing by a downstream modulation consumer.
func (c *Channel) Sample() int8 {
	if c.silenced {
		return 0
	}
	return c.output
}
