package dma

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMem() SliceChipMemory {
	return SliceChipMemory{Mem: make([]byte, 1<<16)}
}

func putWord(mem SliceChipMemory, addr uint32, val uint16) {
	mem.WriteWord(addr, val)
}

// TestCopperMoveListSwitchesColorAtWaitLine reproduces the worked
// scenario: MOVE #$0F00,COLOR00; WAIT V=$80,H=$00; MOVE #$000F,COLOR00;
// END — COLOR00 equals $0F00 from line 0 to $7F and $000F from $80 on.
func TestCopperMoveListSwitchesColorAtWaitLine(t *testing.T) {
	mem := newTestMem()
	const listAddr = 0x1000
	const colorReg = 0 // register offset the MOVEs target; stands in for COLOR00 in the copper's raw output

	putWord(mem, listAddr+0, 0)      // MOVE reg=0
	putWord(mem, listAddr+2, 0x0F00) // value
	putWord(mem, listAddr+4, 0x8001) // WAIT V=$80 H=$00, bit0 set
	putWord(mem, listAddr+6, 0xFFFF) // mask all bits, BlitWait clear (bit15 set here so BlitWait=false)
	putWord(mem, listAddr+8, 0)      // MOVE reg=0
	putWord(mem, listAddr+10, 0x000F)
	putWord(mem, listAddr+12, 0xFFFF) // END sentinel word 1
	putWord(mem, listAddr+14, 0xFFFE) // END sentinel word 2

	beam := NewBeam(200, 200, 228, 228) // short-but-realistic frame (fits CompareV's 8-bit range)
	d := NewCoprocessor(beam, mem)
	d.Copper.List1 = listAddr
	d.Copper.Jump(false)
	d.DMACON = DMACONMaster | DMACONCopper

	color00 := uint16(0)
	for line := 0; line < 200; line++ {
		for h := 0; h < 228; h++ {
			res := d.Step()
			if res.RegWriteValid && res.RegAddr == colorReg {
				color00 = res.RegValue
			}
		}
		if line < 0x80 {
			require.Equal(t, uint16(0x0F00), color00, "line %d", line)
		} else if line > 0x80 {
			require.Equal(t, uint16(0x000F), color00, "line %d", line)
		}
	}
}

// TestBlitterRectangleCopy reproduces the worked scenario: a 20x20-word
// pass-A copy with all masks set and no shifts leaves destination equal
// to source, raises blitter-finished, and clears busy.
func TestBlitterRectangleCopy(t *testing.T) {
	mem := newTestMem()
	const src, dst = 0x20000, 0x30000
	const width, height = 20, 20

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			putWord(mem, uint32(src+row*width*2+col*2), uint16(row*width+col+1))
		}
	}

	beam := NewBeam(200, 200, 228, 228)
	d := NewCoprocessor(beam, mem)
	d.DMACON = DMACONMaster | DMACONBlitter
	d.Blitter.UseA = true
	d.Blitter.UseD = true
	d.Blitter.A.Ptr = src
	d.Blitter.D.Ptr = dst
	d.Blitter.A.FirstMask = 0xFFFF
	d.Blitter.A.LastMask = 0xFFFF
	d.Blitter.Minterm = 0xF0 // output = A regardless of B/C
	d.Blitter.Width = width
	d.Blitter.Height = height
	d.StartBlit()

	finished := false
	for i := 0; i < 100000 && !finished; i++ {
		res := d.Step()
		if res.Interrupts&IRQBlitterDone != 0 {
			finished = true
		}
	}

	require.True(t, finished, "expected blitter-finished interrupt")
	require.False(t, d.Blitter.Busy())
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			want := mem.ReadWord(uint32(src + row*width*2 + col*2))
			got := mem.ReadWord(uint32(dst + row*width*2 + col*2))
			require.Equal(t, want, got, "row %d col %d", row, col)
		}
	}
}

// TestBlitZeroSizeFinishesImmediately covers spec §4.2's "a blit whose
// size encodes zero-by-zero performs no cycles and raises finished
// immediately".
func TestBlitZeroSizeFinishesImmediately(t *testing.T) {
	mem := newTestMem()
	beam := NewBeam(4, 4, 8, 8)
	d := NewCoprocessor(beam, mem)
	d.Blitter.Width = 0
	d.Blitter.Height = 0
	d.StartBlit()

	require.False(t, d.Blitter.Busy())

	res := d.Step()
	require.NotZero(t, res.Interrupts&IRQBlitterDone, "a zero-size blit must still raise the blitter-finished interrupt")
}

func TestBitplaneCountClamps(t *testing.T) {
	mem := newTestMem()
	beam := NewBeam(4, 4, 8, 8)
	d := NewCoprocessor(beam, mem)

	d.SetBitplaneCount(9)
	require.Equal(t, 6, d.BitplaneCount)

	d.SetBitplaneCount(-1)
	require.Equal(t, 0, d.BitplaneCount)
}

func TestBeamWrapEntersVBlankAtFrameEnd(t *testing.T) {
	beam := NewBeam(4, 4, 8, 8)
	sawVBlank := false
	for i := 0; i < 4*8; i++ {
		if beam.Step() {
			sawVBlank = true
		}
	}
	require.True(t, sawVBlank)
	require.Equal(t, 0, beam.H)
	require.Equal(t, 0, beam.V)
}
