package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestFabric() *Fabric {
	return New(Config{
		ChipRAMSize: 512 * 1024,
		SlowRAMSize: 512 * 1024,
		FastRAMSize: 1024 * 1024,
		ROMBase:     0xF80000,
		ROMSize:     512 * 1024,
	})
}

func TestOverlayAliasesROMOverChipRAM(t *testing.T) {
	f := newTestFabric()
	f.LoadROM([]byte{0xAA, 0xBB, 0xCC, 0xDD})

	require.Equal(t, uint32(0xAA), f.ReadCycle(0, Byte, 0))
	require.Equal(t, RegionROM, f.LastRegion())

	f.SetOverlay(false)
	f.WriteCycle(0, Byte, 0, 0x42)
	require.Equal(t, uint32(0x42), f.ReadCycle(0, Byte, 0))
	require.Equal(t, RegionChipRAM, f.LastRegion())
}

func TestChipRAMReadWriteRoundTrip(t *testing.T) {
	f := newTestFabric()
	f.SetOverlay(false)

	f.WriteCycle(0, Long, 0x100, 0x11223344)
	require.Equal(t, uint32(0x11223344), f.ReadCycle(0, Long, 0x100))
	require.Equal(t, uint32(0x1122), f.ReadCycle(0, Word, 0x100))
	require.Equal(t, uint32(0x11), f.ReadCycle(0, Byte, 0x100))
}

func TestFastAndSlowRAMDecode(t *testing.T) {
	f := newTestFabric()

	f.WriteCycle(0, Word, 0x200000, 0xBEEF)
	require.Equal(t, uint32(0xBEEF), f.ReadCycle(0, Word, 0x200000))
	require.Equal(t, RegionFastRAM, f.LastRegion())

	f.WriteCycle(0, Word, 0xC00000, 0xCAFE)
	require.Equal(t, uint32(0xCAFE), f.ReadCycle(0, Word, 0xC00000))
	require.Equal(t, RegionSlowRAM, f.LastRegion())
}

func TestUnmappedSpaceReadsAsOpenBus(t *testing.T) {
	f := newTestFabric()
	require.Equal(t, uint32(0xFFFFFFFF), f.ReadCycle(0, Word, 0x700000))
	require.Equal(t, RegionUnmapped, f.LastRegion())
}

func TestWritesToROMAreIgnored(t *testing.T) {
	f := newTestFabric()
	f.LoadROM([]byte{1, 2, 3, 4})
	f.SetOverlay(false)

	f.WriteCycle(0, Byte, 0xF80000, 0x99)
	require.Equal(t, uint32(1), f.ReadCycle(0, Byte, 0xF80000))
	require.Equal(t, RegionROM, f.LastRegion())
}

type fakeCustom struct {
	regs [0x200]uint16
}

func (c *fakeCustom) ReadCustom(offset uint32) uint16   { return c.regs[offset/2] }
func (c *fakeCustom) WriteCustom(offset uint32, v uint16) { c.regs[offset/2] = v }

func TestCustomRegisterWindowWordAndLong(t *testing.T) {
	f := newTestFabric()
	custom := &fakeCustom{}
	f.AttachCustom(custom)

	f.WriteCycle(0, Word, 0xDFF096, 0x8000) // DMACON-ish offset
	require.Equal(t, uint32(0x8000), f.ReadCycle(0, Word, 0xDFF096))
	require.Equal(t, RegionCustom, f.LastRegion())

	f.WriteCycle(0, Long, 0xDFF0A0, 0x12345678)
	require.Equal(t, uint32(0x12345678), f.ReadCycle(0, Long, 0xDFF0A0))
}

type fakeCIA struct {
	regs [16]uint8
}

func (c *fakeCIA) ReadCIA(offset uint32) uint8    { return c.regs[offset&0xF] }
func (c *fakeCIA) WriteCIA(offset uint32, v uint8) { c.regs[offset&0xF] = v }

func TestCIAWindowsAreDisambiguated(t *testing.T) {
	f := newTestFabric()
	ciaA, ciaB := &fakeCIA{}, &fakeCIA{}
	f.AttachCIA(ciaA, ciaB)

	f.WriteCycle(0, Byte, 0xBFE001, 0x11)
	f.WriteCycle(0, Byte, 0xBFD000, 0x22)

	require.Equal(t, uint32(0x11), f.ReadCycle(0, Byte, 0xBFE001))
	require.Equal(t, uint32(0x22), f.ReadCycle(0, Byte, 0xBFD000))
	require.Equal(t, uint8(0x11), ciaA.regs[0])
	require.Equal(t, uint8(0x22), ciaB.regs[0])
}

type fakeArbiter struct{ busy bool }

func (a *fakeArbiter) ChipBusBusy(masterTick uint64) bool { return a.busy }

func TestStalledDelegatesToArbiter(t *testing.T) {
	f := newTestFabric()
	arb := &fakeArbiter{busy: true}
	f.AttachArbiter(arb)

	require.True(t, f.Stalled(0))
	arb.busy = false
	require.False(t, f.Stalled(0))
}

func TestPeekPokeBypassRegionsWithoutSideEffects(t *testing.T) {
	f := newTestFabric()
	f.SetOverlay(false)

	f.Poke(0x50, Word, 0x5678)
	require.Equal(t, uint32(0x5678), f.Peek(0x50, Word))
}

func TestChipRAMAccessorAliasesBackingStore(t *testing.T) {
	f := newTestFabric()
	f.SetOverlay(false)

	f.WriteCycle(0, Byte, 10, 0x55)
	require.Equal(t, byte(0x55), f.ChipRAM()[10])
}
