package machine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amigacore/coreemu/internal/audio"
	"github.com/amigacore/coreemu/internal/cpu"
	"github.com/amigacore/coreemu/internal/dma"
)

func newTestMachine() *Machine {
	return New(Config{
		ChipRAMSize: 64 * 1024,
		SlowRAMSize: 16 * 1024,
		FastRAMSize: 16 * 1024,
		ROMBase:     0xF80000,
		PAL:         true,
	})
}

func TestNewMachineStartsAtTickZero(t *testing.T) {
	m := newTestMachine()
	require.Equal(t, uint64(0), m.MasterTick())
}

func TestTickNAdvancesMasterTickExactly(t *testing.T) {
	m := newTestMachine()
	m.TickN(100)
	require.Equal(t, uint64(100), m.MasterTick())
}

func TestColorClockOnlyTicksEveryFourMasterTicks(t *testing.T) {
	m := newTestMachine()
	startH := m.DMA.Beam.H
	m.TickN(masterTicksPerColorClock - 1)
	require.Equal(t, startH, m.DMA.Beam.H, "beam must not advance before a full color clock elapses")
	m.TickN(1)
	require.Equal(t, startH+1, m.DMA.Beam.H, "beam advances exactly once per color clock")
}

func TestTickFrameProducesOneResultPerColorClock(t *testing.T) {
	m := newTestMachine()
	wantClocks := uint64(m.DMA.Beam.ClocksPerLine) * uint64(m.DMA.Beam.LinesPerFrame)
	frame, samples := m.TickFrame()
	require.Len(t, samples, int(wantClocks))
	require.Len(t, frame, int(wantClocks)*3)
}

func TestDispatchCustomWriteRoutesToOwningCoprocessor(t *testing.T) {
	m := newTestMachine()

	dispatchCustomWrite(m, 0x00, 0x8220) // RegDMACON, dma-range offset
	// nothing panics and DMA's pending queue gained an entry; confirm it
	// applies on the next Step rather than being dropped.
	m.DMA.Step()
	require.NotEqual(t, uint16(0), m.DMA.DMACON, "a dma-range write must reach the DMA coprocessor")

	preDMACON := m.DMA.DMACON
	dispatchCustomWrite(m, audioBase+0x04, 0x8003) // INTENA, audio range
	require.Equal(t, preDMACON, m.DMA.DMACON, "audio dispatch must not touch dma state")
}

func TestDispatchCustomReadDefaultsToZeroPastWindow(t *testing.T) {
	m := newTestMachine()
	require.Equal(t, uint16(0), dispatchCustomRead(m, customSize+4))
}

func TestRouteInterruptsFoldsCIASourcesIntoSharedController(t *testing.T) {
	m := newTestMachine()
	m.CIAA.IRQ.SetMask(0xFF)
	m.CIAA.IRQ.Raise(1)
	m.routeInterrupts()
	require.NotEqual(t, uint16(0), m.Audio.IRQ.ReadPending()&audio.IRQCIAA)
}

func TestSnapshotRestoreRoundTripsMasterTickAndRAM(t *testing.T) {
	m := newTestMachine()
	m.TickN(37)
	m.Bus.ChipRAM()[10] = 0xAB

	snap := m.Snapshot()

	m.TickN(5)
	m.Bus.ChipRAM()[10] = 0xCD

	m.Restore(snap)

	require.Equal(t, uint64(37), m.MasterTick())
	require.Equal(t, byte(0xAB), m.Bus.ChipRAM()[10])
}

func TestKeyEventArmsSerialRegisterForEightBitTransfer(t *testing.T) {
	m := newTestMachine()
	m.KeyEvent(0x45, true)
	require.Equal(t, 8, m.CIAA.Serial.BitsLeft)
	for i := 0; i < 7; i++ {
		m.CIAA.PulseSerial(0)
		require.False(t, m.CIAA.Serial.Done)
	}
	m.CIAA.PulseSerial(0)
	require.True(t, m.CIAA.Serial.Done)
}

func TestFeedDiskBitWithoutImageIsNoop(t *testing.T) {
	m := newTestMachine()
	require.NotPanics(t, func() { m.FeedDiskBit() })
}

func TestFeedDiskBitWrapsAtImageEnd(t *testing.T) {
	m := newTestMachine()
	m.LoadDiskImage([]byte{0xFF})
	for i := 0; i < 8; i++ {
		m.FeedDiskBit()
	}
	require.Equal(t, 0, m.disk.pos%8)
}

func TestBreakpointIsHitAtMatchingPC(t *testing.T) {
	m := newTestMachine()
	pc := m.CPU.Registers().PC
	m.AddBreakpoint(pc)
	m.mon.checkBreakpoints(m)
	require.True(t, m.StoppedOnBreakpoint())
}

func TestRemoveBreakpointStopsMatching(t *testing.T) {
	m := newTestMachine()
	pc := m.CPU.Registers().PC
	idx := m.AddBreakpoint(pc)
	m.RemoveBreakpoint(idx)
	m.mon.checkBreakpoints(m)
	require.False(t, m.StoppedOnBreakpoint())
}

func TestWatchPointHaltsTickNOnMatchingAccess(t *testing.T) {
	m := newTestMachine()
	// Reset reads the opcode at the reset PC (0 here, with no ROM) into
	// the prefetch cache, so the CPU's very first instruction boundary
	// refills it with a word read from chip RAM address 2. The line's
	// refresh slots stall that read for a few color clocks. Watching
	// that exact access exercises the real wiring between the bus
	// fabric and the monitor rather than calling NotifyAccess directly.
	m.AddWatchPoint(WatchPoint{Addr: 2, Size: cpu.Word, OnRead: true})

	m.TickN(40)

	require.True(t, m.StoppedOnBreakpoint(), "a watched read must halt the run")
	require.Less(t, m.MasterTick(), uint64(40), "the run must stop before exhausting the requested tick count")
}

func TestSyncAudioEnableTracksDMACONEdges(t *testing.T) {
	m := newTestMachine()
	m.DMA.DMACON = dma.DMACONMaster | dma.DMACONAudio
	m.syncAudioEnable()
	require.True(t, m.audioEnabled)

	m.DMA.DMACON = 0
	m.syncAudioEnable()
	require.False(t, m.audioEnabled)
}
