package dma

// SlotOwner names which channel a given DMA slot on the current line
// belongs to (spec §4.2 "DMA slot allocation"). Ownership is
// deterministic given beam position and channel enables, so this is a
// pure function of (H, enables, fetch-window) rather than a stateful
// arbiter.
type SlotOwner int

const (
	SlotRefresh SlotOwner = iota
	SlotDisk
	SlotAudio
	SlotSprite
	SlotBitplane
	SlotCopper
	SlotBlitter
	SlotCPU
	SlotFree
)

// slotTable describes one line's fixed layout: how many leading slots
// go to refresh/disk/audio/sprite before the programmable data-fetch
// window opens.
type slotTable struct {
	RefreshSlots int
	DiskSlots    int
	AudioSlots   int
	SpriteSlots  int

	FetchStart int // first color clock of the data-fetch window
	FetchEnd   int // one past the last color clock of the window
}

func defaultSlotTable() slotTable {
	return slotTable{
		RefreshSlots: 4,
		DiskSlots:    3,
		AudioSlots:   4,
		SpriteSlots:  16,
		FetchStart:  0x38,
		FetchEnd:    0xD8,
	}
}

// owner decides which channel holds the slot at h, given how many of
// the fetch window's slots bitplane DMA consumes this line (derived
// from bitplane count/resolution) and whether the copper, blitter, and
// CPU are contending for what remains. blitterNasty gives the blitter
// strict priority over the CPU while it holds a pending request.
func (t slotTable) owner(h int, bitplaneSlots int, diskEnabled, audioEnabled, spriteEnabled bool, copperWantsSlot, blitterWantsSlot, blitterNasty bool) SlotOwner {
	switch {
	case h < t.RefreshSlots:
		return SlotRefresh
	case h < t.RefreshSlots+t.DiskSlots:
		if diskEnabled {
			return SlotDisk
		}
		return SlotFree
	case h < t.RefreshSlots+t.DiskSlots+t.AudioSlots:
		if audioEnabled {
			return SlotAudio
		}
		return SlotFree
	case h < t.RefreshSlots+t.DiskSlots+t.AudioSlots+t.SpriteSlots:
		if spriteEnabled {
			return SlotSprite
		}
		return SlotFree
	}
	if h >= t.FetchStart && h < t.FetchStart+bitplaneSlots {
		return SlotBitplane
	}
	if h >= t.FetchStart && h < t.FetchEnd {
		if copperWantsSlot {
			return SlotCopper
		}
		if blitterWantsSlot {
			return SlotBlitter
		}
		return SlotCPU
	}
	if blitterNasty && blitterWantsSlot {
		return SlotBlitter
	}
	return SlotCPU
}
