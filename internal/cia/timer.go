package cia

// Timer is one 16-bit down-counter. Continuous mode reloads from
// Latch and keeps running on underflow; one-shot mode stops. Timer B
// can additionally chain from timer A's underflow or an external
// counter input instead of the peripheral clock (spec §4.5).
type Timer struct {
	Latch   uint16
	Counter uint16
	Running bool
	OneShot bool

	// ChainMode selects timer B's count source; ignored for timer A.
	ChainMode ChainMode

	Underflowed bool // true after the Tick that finds the counter at zero and reloads it
}

// ChainMode names what clocks a timer-B count decrement, per spec
// §4.5's "timer B chainable to timer A underflows or to an external
// counter input".
type ChainMode int

const (
	ChainPeripheralClock ChainMode = iota
	ChainTimerAUnderflow
	ChainExternalInput
)

// WriteLatch sets the reload value; if the timer isn't running, the
// counter also loads immediately so a subsequent Start begins from
// the freshly written value.
func (t *Timer) WriteLatch(value uint16) {
	t.Latch = value
	if !t.Running {
		t.Counter = value
	}
}

// Start arms the timer, loading the counter from the latch.
func (t *Timer) Start() {
	t.Counter = t.Latch
	t.Running = true
}

// Stop halts the timer without resetting the counter.
func (t *Timer) Stop() {
	t.Running = false
}

// Tick decrements the counter by one if it is running and this
// cycle's chain condition is satisfied (always true for the
// peripheral-clock and external-input sources, which the caller gates
// by only calling Tick when that source pulses; chainedUnderflow
// carries timer A's Underflowed flag for ChainTimerAUnderflow mode).
func (t *Timer) Tick(chainedUnderflow bool) {
	t.Underflowed = false
	if !t.Running {
		return
	}
	if t.ChainMode == ChainTimerAUnderflow && !chainedUnderflow {
		return
	}
	if t.Counter == 0 {
		t.Counter = t.Latch
		t.Underflowed = true
		if t.OneShot {
			t.Running = false
		}
		return
	}
	t.Counter--
}
