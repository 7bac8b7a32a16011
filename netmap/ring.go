package netmap

// Ring is a view into one netmap_ring (kernel RX or TX ring) living
// inside a Port's mmap'd region. All accessors read/write the shared
// memory directly; there is no local cache.
type Ring struct {
	region []byte // the full mmap'd region this ring's memory belongs to
	off    int    // byte offset of this ring's header within region
}

func newRing(region []byte, off int) Ring {
	return Ring{region: region, off: off}
}

func (r Ring) hdr(fieldOff int) []byte { return r.region[r.off+fieldOff:] }

func (r Ring) BufOfs() uint64  { return le64(r.hdr(ringBufOfsOff), 0) }
func (r Ring) NumSlots() uint32 { return le32(r.hdr(ringNumSlotsOff), 0) }
func (r Ring) BufSize() uint32  { return le32(r.hdr(ringBufSizeOff), 0) }
func (r Ring) RingID() uint16   { return le16(r.hdr(ringIDOff), 0) }

func (r Ring) Head() uint32     { return le32(r.hdr(ringHeadOff), 0) }
func (r Ring) SetHead(v uint32) { putLe32(r.hdr(ringHeadOff), 0, v) }

func (r Ring) Cur() uint32     { return le32(r.hdr(ringCurOff), 0) }
func (r Ring) SetCur(v uint32) { putLe32(r.hdr(ringCurOff), 0, v) }

// Tail is kernel-owned; the application only reads it.
func (r Ring) Tail() uint32 { return le32(r.hdr(ringTailOff), 0) }

func (r Ring) Flags() uint32 { return le32(r.hdr(ringFlagsOff), 0) }

// TsSec/TsUsec are the seconds/microseconds of the timeval the kernel
// stamped at the last successful rxsync of this ring.
func (r Ring) TsSec() int64  { return int64(le64(r.hdr(ringTsSecOff), 0)) }
func (r Ring) TsUsec() int64 { return int64(le64(r.hdr(ringTsUsecOff), 0)) }

// Empty reports whether the application has consumed every slot the
// kernel has made available (nm_ring_empty in the C API).
func (r Ring) Empty() bool { return r.Head() == r.Tail() }

// Next advances a ring index (head/cur/tail) by one, wrapping at
// NumSlots (nm_ring_next in the C API).
func (r Ring) Next(index uint32) uint32 {
	if index+1 == r.NumSlots() {
		return 0
	}
	return index + 1
}

// Slot returns the slot record at the given index within [0, NumSlots).
func (r Ring) Slot(index uint32) Slot {
	base := r.off + ringHeaderSize + int(index)*slotSize
	return Slot{b: r.region[base : base+slotSize]}
}

// Buf returns the packet buffer named by a slot's buf_idx, sized to
// the ring's nr_buf_size (NETMAP_BUF in the C API). The returned
// slice aliases shared kernel memory directly; callers must not
// retain it past the point where the buffer's index is handed back
// to the kernel or recycled into another slot.
func (r Ring) Buf(bufIdx uint32) []byte {
	base := r.off + int(r.BufOfs()) + int(bufIdx)*int(r.BufSize())
	return r.region[base : base+int(r.BufSize())]
}
