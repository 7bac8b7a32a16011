package nethuns

import "sync/atomic"

// RingSlotStatus is the three-value lifecycle state of a ring slot.
// Only these three values exist; no parallel integer refcount is
// layered on top, per spec.md's explicit resolution of that ambiguity.
type RingSlotStatus uint32

const (
	StatusFree RingSlotStatus = iota
	StatusInUse
	StatusInFlight
)

func (s RingSlotStatus) String() string {
	switch s {
	case StatusFree:
		return "Free"
	case StatusInUse:
		return "InUse"
	case StatusInFlight:
		return "InFlight"
	default:
		return "Unknown"
	}
}

// AtomicStatus wraps a RingSlotStatus behind sync/atomic. Go's atomic
// operations are already sequentially consistent, unlike Rust's
// Ordering-parameterized atomics; the Acquire/Release naming on the
// methods below documents which fence each call site relies on, it
// does not select a weaker mode the runtime could offer.
type AtomicStatus struct {
	v atomic.Uint32
}

// LoadAcquire reads the current status. The name documents that
// callers rely on seeing every store that happened-before the
// corresponding release, which Go's atomic.Uint32.Load always
// provides.
func (a *AtomicStatus) LoadAcquire() RingSlotStatus {
	return RingSlotStatus(a.v.Load())
}

// StoreRelease publishes a new status. The name documents that this
// call is the publication point for any slot field written before it.
func (a *AtomicStatus) StoreRelease(s RingSlotStatus) {
	a.v.Store(uint32(s))
}

// StoreRelaxed publishes a new status without implying anything about
// other memory the caller has written; used by flush's producer-side
// InUse->InFlight transition, where the slot is still exclusively
// owned by the calling thread.
func (a *AtomicStatus) StoreRelaxed(s RingSlotStatus) {
	a.v.Store(uint32(s))
}

// CompareAndSwap atomically replaces old with new (for example
// Free->InUse, "claim this slot for the producer"), returning false
// if a status other than old was observed.
func (a *AtomicStatus) CompareAndSwap(old, new RingSlotStatus) bool {
	return a.v.CompareAndSwap(uint32(old), uint32(new))
}

// Slot is a single fixed-size packet record inside a NethunsRing.
// Fields other than status may only be mutated while status is Free
// (by the producer preparing the slot) or while status is InFlight
// (by the driver's completion sweep); see invariant S3.
type Slot struct {
	ID     uint64
	Packet []byte // allocated at packetSize bytes; receive paths reslice it to the received bytes
	Len    uint32
	Pkthdr Pkthdr
	Status AtomicStatus
}

// newSlot allocates a slot with a packetSize-byte backing buffer.
func newSlot(id uint64, packetSize int) *Slot {
	return &Slot{ID: id, Packet: make([]byte, packetSize)}
}
