package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMem() SliceChipMemory {
	return SliceChipMemory{Mem: make([]byte, 1<<12)}
}

func TestChannelPrefetchThenRunningEmitsBothBytes(t *testing.T) {
	mem := newTestMem()
	mem.WriteWord(0x100, 0x1234)

	var ch Channel
	ch.Period = 2
	ch.Length = 1
	ch.Pointer = 0x100
	ch.SetEnabled(mem, true)
	require.Equal(t, StateRunning, ch.State)

	var samples []int8
	for i := 0; i < 8; i++ {
		samples = append(samples, ch.Tick(mem))
	}
	require.Contains(t, samples, int8(0x12))
	require.Contains(t, samples, int8(0x34))
}

func TestChannelRaisesDoneWhenLengthExhaustedWithoutLoop(t *testing.T) {
	mem := newTestMem()
	mem.WriteWord(0x200, 0x0101)

	var ch Channel
	ch.Period = 1
	ch.Length = 0
	ch.Pointer = 0x200
	ch.Loop = false
	ch.SetEnabled(mem, true)

	done := false
	for i := 0; i < 10 && !done; i++ {
		ch.Tick(mem)
		if ch.Done {
			done = true
		}
	}
	require.True(t, done)
	require.Equal(t, StateIdle, ch.State)
}

func TestDiskRequiresDoubleWriteToArm(t *testing.T) {
	var d DiskController
	d.WriteLength(4)
	require.False(t, d.armed)
	d.WriteLength(4)
	require.True(t, d.armed)
}

func TestDiskMismatchedDoubleWriteDoesNotArm(t *testing.T) {
	var d DiskController
	d.WriteLength(4)
	d.WriteLength(5)
	require.False(t, d.armed)
}

func TestDiskWritesDecodedWordAfterSync(t *testing.T) {
	mem := newTestMem()
	var d DiskController
	d.SyncEnabled = true
	d.Pointer = 0x400
	d.WriteLength(1)
	d.WriteLength(1)

	feedWord := func(w uint16) {
		for i := 15; i >= 0; i-- {
			d.FeedBit(mem, uint8(w>>uint(i))&1)
		}
	}
	feedWord(mfmSyncWord)
	feedWord(0xBEEF)

	require.True(t, d.Done)
	require.Equal(t, uint16(0xBEEF), mem.ReadWord(0x400))
}

func TestInterruptControllerSetClearConvention(t *testing.T) {
	var ic InterruptController
	ic.WriteEnabled(irqMasterEnable | IRQCopper)
	ic.Raise(IRQCopper)
	require.Equal(t, 6, ic.Level())

	ic.WritePending(IRQCopper) // bit 15 clear: clears this bit
	require.Equal(t, 0, ic.Level())
}

func TestStereoPanningSplitsChannels(t *testing.T) {
	mem := newTestMem()
	mem.WriteWord(0x500, 0x7F7F)

	var c Coprocessor
	c.Channels[0].Period = 1
	c.Channels[0].Length = 0
	c.Channels[0].Pointer = 0x500
	c.Channels[0].Volume = 64
	c.Channels[0].SetEnabled(mem, true)

	out := c.Tick(mem)
	require.NotZero(t, out.Left)
	require.Zero(t, out.Right)
}
