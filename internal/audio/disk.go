package audio

// mfmSyncWord is the standard MFM sync mark the controller's shift
// register compares against before it starts writing decoded words to
// chip memory (spec §4.4 "Disk").
const mfmSyncWord = 0x4489

// DiskController models the floppy DMA channel: a bitstream shift
// register fed by the drive, gated by sync detection, writing decoded
// words to chip memory through its own DMA pointer once armed.
type DiskController struct {
	SyncEnabled bool

	shift   uint16
	synced  bool
	bitCount int

	Pointer uint32
	length  uint16
	armed   bool

	pendingLength uint16
	haveFirstWrite bool

	Done bool
}

// WriteLength implements the documented double-write safety latch:
// the length register must be written twice with the same value
// before DMA is armed (spec §4.4).
func (d *DiskController) WriteLength(value uint16) {
	if !d.haveFirstWrite {
		d.pendingLength = value
		d.haveFirstWrite = true
		return
	}
	if d.pendingLength == value {
		d.length = value
		d.armed = true
	}
	d.haveFirstWrite = false
}

// Disarm cancels a pending arm sequence, e.g. on an explicit DMA-off
// write, clearing the latch so the next two writes must agree again.
func (d *DiskController) Disarm() {
	d.armed = false
	d.haveFirstWrite = false
	d.synced = false
}

// FeedBit shifts in one bit of the drive's raw MFM bitstream. While
// waiting for sync this only updates the comparator; once synced (and
// armed), each completed 16-bit cell is written to chip memory and
// the pointer/length counters advance.
func (d *DiskController) FeedBit(mem ChipMemory, bit uint8) {
	d.Done = false
	d.shift = d.shift<<1 | uint16(bit&1)

	if !d.synced {
		if d.SyncEnabled && d.shift == mfmSyncWord {
			d.synced = true
			d.bitCount = 0
		}
		return
	}
	if !d.armed {
		return
	}

	d.bitCount++
	if d.bitCount < 16 {
		return
	}
	d.bitCount = 0

	mem.WriteWord(d.Pointer, d.shift)
	d.Pointer += 2
	if d.length > 0 {
		d.length--
	}
	if d.length == 0 {
		d.armed = false
		d.synced = false
		d.Done = true
	}
}
