// Package cia implements the timer/IO peripheral chip: two instances
// run in the machine, each with parallel ports, chainable timers, a
// time-of-day counter, a serial shift register, and its own small
// interrupt controller (spec §4.5).
package cia

// Port is one 8-bit parallel port with its data-direction register.
// Bits set in Direction are outputs (driven by Output); clear bits are
// inputs, read from whatever the host wires into External.
type Port struct {
	Direction uint8
	Output    uint8
	External  uint8 // host-driven input levels for bits configured as inputs
}

// Read returns the port's current logic levels: output bits reflect
// Output, input bits reflect External.
func (p *Port) Read() uint8 {
	return (p.Output & p.Direction) | (p.External &^ p.Direction)
}

// Write updates the output latch; only bits configured as outputs
// actually change the pins (spec §4.5 "two 8-bit parallel ports with
// data-direction registers").
func (p *Port) Write(value uint8) {
	p.Output = value
}
