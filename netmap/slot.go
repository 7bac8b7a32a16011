package netmap

// Slot is a view into one netmap_slot record inside a ring's mmap'd
// slot array: buf_idx, len, flags, and the kernel's scratch ptr field.
type Slot struct {
	b []byte // slotSize bytes, sliced out of the ring's backing region
}

func (s Slot) BufIdx() uint32     { return le32(s.b, slotBufIdxOff) }
func (s Slot) SetBufIdx(v uint32) { putLe32(s.b, slotBufIdxOff, v) }

func (s Slot) Len() uint16     { return le16(s.b, slotLenOff) }
func (s Slot) SetLen(v uint16) { putLe16(s.b, slotLenOff, v) }

func (s Slot) Flags() uint16     { return le16(s.b, slotFlagsOff) }
func (s Slot) SetFlags(v uint16) { putLe16(s.b, slotFlagsOff, v) }

func (s Slot) MarkBufChanged() {
	s.SetFlags(s.Flags() | SlotFlagBufChanged)
}

// Ptr is the kernel-reserved scratch field; the driver uses it to
// stash a back-pointer (encoded as an offset into a side table) from
// a kernel TX slot to the nethuns slot it is carrying, so the
// completion sweep after NIOCTXSYNC can find its way back.
func (s Slot) Ptr() uint64     { return le64(s.b, slotPtrOff) }
func (s Slot) SetPtr(v uint64) { binaryPutLe64(s.b, slotPtrOff, v) }

func binaryPutLe64(b []byte, off int, v uint64) {
	for i := 0; i < 8; i++ {
		b[off+i] = byte(v >> (8 * i))
	}
}

// BufIdxHolder is satisfied by anything that owns a netmap buffer
// index: a ring Slot, or a foreign type (such as a driver's own
// packet-descriptor struct) that tracks which buffer it currently
// carries. Swap is expressed against this interface rather than
// concrete Slot so it also covers the kernel-ring/application-ring
// exchange a zero-copy TX path performs.
type BufIdxHolder interface {
	BufIdx() uint32
	SetBufIdx(uint32)
}

// Swap exchanges a's buffer index with b's, the core zero-copy
// operation: no bytes are copied, only the two uint32 indices trade
// places.
func Swap(a, b BufIdxHolder) {
	av, bv := a.BufIdx(), b.BufIdx()
	a.SetBufIdx(bv)
	b.SetBufIdx(av)
}
