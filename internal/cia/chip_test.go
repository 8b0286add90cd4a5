package cia

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPortReadReflectsDirectionSplit(t *testing.T) {
	var p Port
	p.Direction = 0x0F // low nibble output, high nibble input
	p.Write(0xAA)
	p.External = 0x55

	got := p.Read()
	require.Equal(t, uint8(0x5A), got) // low nibble from Output(0xA), high from External(0x5)
}

func TestTimerContinuousReloadsAndUnderflows(t *testing.T) {
	var tm Timer
	tm.WriteLatch(2)
	tm.Start()

	tm.Tick(false)
	require.False(t, tm.Underflowed)
	tm.Tick(false)
	require.False(t, tm.Underflowed)
	tm.Tick(false)
	require.True(t, tm.Underflowed)
	require.True(t, tm.Running)
	require.Equal(t, uint16(2), tm.Counter)
}

func TestTimerOneShotStopsAfterUnderflow(t *testing.T) {
	var tm Timer
	tm.OneShot = true
	tm.WriteLatch(1)
	tm.Start()

	tm.Tick(false)
	tm.Tick(false)
	require.True(t, tm.Underflowed)
	require.False(t, tm.Running)
}

func TestTimerBChainsFromTimerAUnderflow(t *testing.T) {
	var a, b Timer
	a.WriteLatch(1)
	a.Start()
	b.ChainMode = ChainTimerAUnderflow
	b.WriteLatch(1)
	b.Start()

	a.Tick(false)
	b.Tick(a.Underflowed)
	require.False(t, b.Underflowed)
	a.Tick(false) // a.Counter is 0 here, so this tick underflows and reloads it to 1
	b.Tick(a.Underflowed)
	require.False(t, b.Underflowed) // b counts its one step from 1 to 0 without underflowing
}

func TestTimeOfDayWrapsAt24Bits(t *testing.T) {
	var tod TimeOfDay
	tod.Counter = 0xFFFFFF
	tod.Pulse()
	require.Equal(t, uint32(0), tod.Counter)
}

func TestTimeOfDayAlarmFires(t *testing.T) {
	var tod TimeOfDay
	tod.Alarm = 5
	for i := 0; i < 5; i++ {
		tod.Pulse()
	}
	require.True(t, tod.AlarmHit)
}

func TestSerialShiftsOutMSBFirst(t *testing.T) {
	var s Serial
	s.Output = true
	s.Load(0b10110000)

	require.Equal(t, uint8(1), s.Pulse(0))
	require.Equal(t, uint8(0), s.Pulse(0))
	require.False(t, s.Done)
}

func TestInterruptStatusReadClears(t *testing.T) {
	var ic InterruptController
	ic.SetMask(FlagTimerA)
	ic.Raise(FlagTimerA)
	require.True(t, ic.Pending())

	status := ic.ReadStatus()
	require.NotZero(t, status&FlagTimerA)
	require.False(t, ic.Pending())
}
