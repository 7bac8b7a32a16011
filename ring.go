package nethuns

import "github.com/nethuns-go/nethuns/ring"

// reclaimBatchCap bounds NumFreeSlots's forward scan: spec.md's
// num_free_slots(pos) stops at the first non-Free slot or after 32
// slots, whichever comes first.
const reclaimBatchCap = 32

// NethunsRing is the userspace-owned ring of slots described in
// spec.md §4.C: a fixed-size vector of slots with head/tail
// discipline built on top of the ring.Queue primitive.
type NethunsRing struct {
	q          *ring.Queue[*Slot]
	packetSize int
}

// NewRing allocates a NethunsRing of n slots of packetSize bytes each,
// for callers outside this package that drive their own slot
// lifecycle (the pcap socket, for one).
func NewRing(n, packetSize int) *NethunsRing { return newNethunsRing(n, packetSize) }

// newNethunsRing allocates n slots (rounded up to a power of two by
// ring.Queue) each packetSize bytes, with ids assigned in [0, size of
// the rounded-up backing array).
func newNethunsRing(n, packetSize int) *NethunsRing {
	q := ring.New[*Slot](n)
	for i := 0; i < q.Size(); i++ {
		*q.Get(uint64(i)) = newSlot(uint64(i), packetSize)
	}
	return &NethunsRing{q: q, packetSize: packetSize}
}

func (r *NethunsRing) Size() int       { return r.q.Cap() }
func (r *NethunsRing) IsEmpty() bool   { return r.q.IsEmpty() }
func (r *NethunsRing) IsFull() bool    { return r.q.IsFull() }
func (r *NethunsRing) Head() uint64    { return r.q.Head() }
func (r *NethunsRing) Tail() uint64    { return r.q.Tail() }
func (r *NethunsRing) AdvanceHead()    { r.q.AdvanceHead() }
func (r *NethunsRing) AdvanceTail()    { r.q.AdvanceTail() }
func (r *NethunsRing) PacketSize() int { return r.packetSize }

// GetSlot returns the slot at absolute index idx (typically Head() or
// Tail(), or an offset from them).
func (r *NethunsRing) GetSlot(idx uint64) *Slot { return *r.q.Get(idx) }

// NextSlot returns the slot that would become the new head/tail after
// the next Advance call, without advancing anything.
func (r *NethunsRing) NextSlot(idx uint64) *Slot { return r.GetSlot(idx + 1) }

// NumFreeSlots scans forward from pos counting consecutive Free
// slots, stopping at the first non-Free slot or after
// reclaimBatchCap, whichever comes first.
func (r *NethunsRing) NumFreeSlots(pos uint64) int {
	n := 0
	r.q.Scan(pos, reclaimBatchCap, func(s **Slot) bool {
		if (*s).Status.LoadAcquire() != StatusFree {
			return false
		}
		n++
		return true
	})
	return n
}

// SendSlot is the producer-side publish operation: if the slot at id
// is Free, it writes len and release-stores InUse, returning true;
// otherwise it returns false without mutating anything.
func (r *NethunsRing) SendSlot(id uint64, length int) bool {
	s := r.GetSlot(id)
	if s.Status.LoadAcquire() != StatusFree {
		return false
	}
	s.Len = uint32(length)
	s.Status.StoreRelease(StatusInUse)
	return true
}

// FreeSlots walks forward from the ring's tail while the tail slot is
// Free, invoking recycle with each slot's buffer index before
// advancing tail. It is the Go rendering of the
// nethuns_ring_free_slots! macro: always terminates because the
// tail/Free test is re-evaluated every iteration.
func (r *NethunsRing) FreeSlots(recycle func(bufIdx uint32)) {
	for {
		if r.q.IsEmpty() {
			return
		}
		s := r.GetSlot(r.Tail())
		if s.Status.LoadAcquire() != StatusFree {
			return
		}
		recycle(s.Pkthdr.BufIdx)
		r.AdvanceTail()
	}
}
