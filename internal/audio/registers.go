package audio

// Register offsets within the audio/IO coprocessor's slice of the
// custom-register window, assigned by internal/machine's dispatch
// table. Each of the four channels repeats the same four-register
// block (spec §4.4 "Audio"); the disk and interrupt registers each
// get one fixed slot.
const (
	RegDSKLEN  = 0x00 // double-write-latched disk DMA length/arm
	RegDSKSYNC = 0x02 // low bit: sync-word detection enable

	RegINTENA = 0x04 // enable mask, set/clear convention
	RegINTREQ = 0x06 // pending register, set/clear convention

	regAudBase  = 0x10 // AUD0 through AUD3, 8 bytes apart
	regAudPitch = 0x08

	offAudLen    = 0x00
	offAudPer    = 0x02
	offAudVol    = 0x04
	offAudDat    = 0x06
)

// WriteRegister dispatches a CPU- or copper-originated write. Writes
// here take effect immediately: nothing in this coprocessor has an
// in-progress multi-cycle operation whose visibility the documented
// write-deferral question concerns (that only applies to the blitter,
// handled in internal/dma).
func (a *Coprocessor) WriteRegister(mem ChipMemory, offset uint32, val uint16) {
	switch {
	case offset == RegDSKLEN:
		a.Disk.WriteLength(val)
	case offset == RegDSKSYNC:
		a.Disk.SyncEnabled = val&1 != 0
	case offset == RegINTENA:
		a.IRQ.WriteEnabled(val)
	case offset == RegINTREQ:
		a.IRQ.WritePending(val)
	case offset >= regAudBase && offset < regAudBase+4*regAudPitch:
		idx := int(offset-regAudBase) / regAudPitch
		a.writeChannelRegister(mem, idx, int(offset-regAudBase)%regAudPitch, val)
	}
}

func (a *Coprocessor) writeChannelRegister(mem ChipMemory, idx, sub int, val uint16) {
	if idx < 0 || idx >= len(a.Channels) {
		return
	}
	ch := &a.Channels[idx]
	switch sub {
	case offAudLen:
		ch.Length = val
	case offAudPer:
		ch.Period = val
	case offAudVol:
		ch.Volume = uint8(val) & 0x7F
	case offAudDat:
		// AUDxDAT is normally fed by DMA directly; a CPU write here
		// (non-DMA PCM mode) is ignored and does not reach the channel.
		_ = mem
	}
}

// ReadRegister returns a readable register's live value.
func (a *Coprocessor) ReadRegister(offset uint32) uint16 {
	switch offset {
	case RegINTREQ:
		return a.IRQ.ReadPending()
	default:
		return 0
	}
}

// SetChannelEnabled mirrors a software write to DMACON's per-channel
// audio-enable bit, routed here from internal/dma since DMACON itself
// lives in that coprocessor's register window.
func (a *Coprocessor) SetChannelEnabled(mem ChipMemory, idx int, on bool) {
	if idx < 0 || idx >= len(a.Channels) {
		return
	}
	a.Channels[idx].SetEnabled(mem, on)
}
