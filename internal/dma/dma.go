package dma

// DMA control bits, spec §4.2's "16-bit DMA-control register (per-
// channel enables and priority)".
const (
	DMACONBitplane uint16 = 1 << 0
	DMACONCopper   uint16 = 1 << 1
	DMACONBlitter  uint16 = 1 << 2
	DMACONSprite   uint16 = 1 << 3
	DMACONDisk     uint16 = 1 << 4
	DMACONAudio    uint16 = 1 << 5
	DMACONNasty    uint16 = 1 << 6 // blitter-nasty: starves the CPU while the blitter runs
	DMACONMaster   uint16 = 1 << 9
)

// Interrupt source bits the slot result may raise this cycle (spec
// §4.2's enumerated sources, mapped to the bit positions the owning
// interrupt controller in internal/audio expects).
const (
	IRQVerticalBlank uint16 = 1 << 5
	IRQCopper        uint16 = 1 << 7
	IRQBlitterDone   uint16 = 1 << 6
	IRQDiskBlock     uint16 = 1 << 1
	IRQAudio0        uint16 = 1 << 8
)

// SlotResult is what one Step call hands back to the orchestrator for
// forwarding into the video and audio coprocessors (spec §4.2
// "Contract").
type SlotResult struct {
	BitplaneValid bool
	BitplaneWord  uint16
	PlaneIndex    int

	SpriteValid   bool
	SpriteWord    uint16
	SpriteIndex   int
	SpriteControl bool

	RegWriteValid bool
	RegAddr       uint32
	RegValue      uint16

	Interrupts uint16

	ChipBusBusy bool
}

// Coprocessor is the DMA/copper/blitter/beam unit (spec §4.2). It owns
// chip memory access directly and is ticked once per color clock.
type Coprocessor struct {
	Beam    *Beam
	Copper  Copper
	Blitter Blitter

	Mem ChipMemory

	DMACON uint16

	BitplanePointers [6]uint32
	BitplaneCount    int // 0-6 (8 on later variants), clamped on write (spec §4.2 "Out-of-range bitplane counts clamp")

	SpritePointers [8]uint32
	spriteActive   [8]bool

	DiskPointer  uint32
	AudioPointer [4]uint32

	table slotTable

	prevVBlank bool

	pending []pendingWrite // register writes queued this cycle, applied at the top of the next Step
}

// NewCoprocessor wires a beam timing source; the copper/blitter start
// in their reset state.
func NewCoprocessor(beam *Beam, mem ChipMemory) *Coprocessor {
	return &Coprocessor{
		Beam:  beam,
		Mem:   mem,
		table: defaultSlotTable(),
	}
}

// Reset restores post-reset state: DMA disabled, copper halted, beam
// at the top-left.
func (d *Coprocessor) Reset() {
	d.DMACON = 0
	d.Copper = Copper{}
	d.Blitter = Blitter{}
	d.Beam.Reset()
}

// SetBitplaneCount clamps to the legal range, per spec §4.2's
// documented edge case.
func (d *Coprocessor) SetBitplaneCount(n int) {
	switch {
	case n < 0:
		n = 0
	case n > 6:
		n = 6
	}
	d.BitplaneCount = n
}

func (d *Coprocessor) enabled(bit uint16) bool {
	return d.DMACON&DMACONMaster != 0 && d.DMACON&bit != 0
}

// Step advances the coprocessor by one color clock, representing one
// DMA slot (spec §4.2 "Contract").
func (d *Coprocessor) Step() SlotResult {
	var res SlotResult

	d.applyPendingWrites()

	if d.Blitter.takeFinishPending() {
		res.Interrupts |= IRQBlitterDone
	}

	enteredVBlank := d.Beam.Step()
	if enteredVBlank {
		d.Copper.RestartAtVBlank()
		res.Interrupts |= IRQVerticalBlank
	}

	if d.enabled(DMACONCopper) {
		d.Copper.Poll(d.Beam, &d.Blitter) // beam comparator runs every cycle, slot or not
	}

	bitplaneSlots := d.BitplaneCount * 4 // four slots per plane per spec's data-fetch window sizing
	copperWants := d.enabled(DMACONCopper) && !d.Copper.Halted && !d.Copper.Waiting()
	blitterWants := d.enabled(DMACONBlitter) && d.Blitter.Busy()
	nasty := d.DMACON&DMACONNasty != 0

	owner := d.table.owner(d.Beam.H, bitplaneSlots, d.enabled(DMACONDisk), d.enabled(DMACONAudio),
		d.enabled(DMACONSprite), copperWants, blitterWants, nasty)

	switch owner {
	case SlotBitplane:
		plane := (d.Beam.H - d.table.FetchStart) / 4 % max1(d.BitplaneCount)
		if plane < len(d.BitplanePointers) {
			word := d.Mem.ReadWord(d.BitplanePointers[plane])
			d.BitplanePointers[plane] += 2
			res.BitplaneValid = true
			res.BitplaneWord = word
			res.PlaneIndex = plane
		}
		res.ChipBusBusy = true
	case SlotSprite:
		idx := (d.Beam.H - d.table.RefreshSlots - d.table.DiskSlots - d.table.AudioSlots) / 2
		if idx >= 0 && idx < len(d.SpritePointers) {
			word := d.Mem.ReadWord(d.SpritePointers[idx])
			d.SpritePointers[idx] += 2
			res.SpriteValid = true
			res.SpriteWord = word
			res.SpriteIndex = idx
			res.SpriteControl = !d.spriteActive[idx]
		}
		res.ChipBusBusy = true
	case SlotCopper:
		wasHalted := d.Copper.Halted
		if reg, val, ok := d.Copper.Step(d.Mem, d.Beam, &d.Blitter); ok {
			res.RegWriteValid = true
			res.RegAddr = reg
			res.RegValue = val
		}
		if d.Copper.Halted && !wasHalted {
			res.Interrupts |= IRQCopper // reached the end-of-list sentinel
		}
		res.ChipBusBusy = true
	case SlotBlitter:
		if d.Blitter.Step(d.Mem) {
			res.Interrupts |= IRQBlitterDone
		}
		res.ChipBusBusy = true
	case SlotDisk, SlotAudio, SlotRefresh:
		res.ChipBusBusy = true
	}

	return res
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// StartBlit is called the cycle after software writes the blitter's
// size register (spec §4.2 "Starting a blit requires writing the size
// register last").
func (d *Coprocessor) StartBlit() { d.Blitter.Start() }
