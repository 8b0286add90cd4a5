package cia

// TimeOfDay is the 24-bit binary counter clocked by a pin wired to
// either vertical or horizontal sync (spec §4.5). Alarm is compared
// against on every pulse and raises AlarmHit for one cycle on match.
type TimeOfDay struct {
	Counter uint32 // low 24 bits significant
	Alarm   uint32
	Latched bool
	latch   uint32

	AlarmHit bool
}

// Pulse advances the counter by one sync pulse.
func (t *TimeOfDay) Pulse() {
	t.AlarmHit = false
	t.Counter = (t.Counter + 1) & 0xFFFFFF
	if t.Counter == t.Alarm&0xFFFFFF {
		t.AlarmHit = true
	}
}

// Read returns the live counter, or a value frozen at the moment of a
// prior Latch call — real hardware freezes the register pair on a
// read of the high byte until the low byte is also read, modeled here
// as an explicit latch/unlatch pair instead.
func (t *TimeOfDay) Read() uint32 {
	if t.Latched {
		return t.latch
	}
	return t.Counter
}

func (t *TimeOfDay) Latch() {
	t.latch = t.Counter
	t.Latched = true
}

func (t *TimeOfDay) Unlatch() {
	t.Latched = false
}
