package rc

import "sync/atomic"

// maxRefCount is a soft ceiling on the shared/weak counters. Crossing
// it means a reference-counting bug (a leak that clones without ever
// dropping), not a legitimate workload, so we panic rather than wrap.
const maxRefCount = 1<<62 - 1

// inner is the heap allocation shared by every handle derived from a
// single New call.
type inner[T any] struct {
	value T

	// local is touched only by the current owner; see Owner.
	local uint64

	shared    atomic.Int64
	weak      atomic.Int64
	owner     atomic.Uint64
	onRelease func(*T)
}

// Local is a non-atomically-counted handle, cheap to Clone and Drop
// as long as every call is made by the Owner that created it (or that
// most recently won ToLocal/UpgradeLocal).
type Local[T any] struct {
	p     *inner[T]
	owner Owner
}

// Shared is an atomically-counted handle, safe to Clone and Drop from
// any goroutine.
type Shared[T any] struct {
	p *inner[T]
}

// Weak is a non-owning reference that does not keep the value alive;
// it must be upgraded before the value can be accessed.
type Weak[T any] struct {
	p *inner[T]
}

// New allocates value and returns a Local handle owned by owner.
// onRelease, if non-nil, is invoked exactly once — synchronously,
// from whichever Drop call brings the shared count to zero — with a
// pointer to the stored value. For a RecvHandle this is the hook that
// stores RingSlotStatus Free into the slot's status cell.
func New[T any](owner Owner, value T, onRelease func(*T)) Local[T] {
	p := &inner[T]{value: value, local: 1, onRelease: onRelease}
	p.shared.Store(1)
	p.weak.Store(1)
	p.owner.Store(uint64(owner))
	return Local[T]{p: p, owner: owner}
}

func incrChecked(c *atomic.Int64) {
	if c.Add(1) > maxRefCount {
		panic("rc: reference count overflow")
	}
}

func (l Local[T]) checkOwner() {
	if l.p.owner.Load() != uint64(l.owner) {
		panic("rc: Local handle used from the wrong owner")
	}
}

// Value returns a pointer to the underlying value. Valid as long as
// this handle (or any clone/shared/upgraded derivative) has not been
// dropped.
func (l Local[T]) Value() *T { return &l.p.value }

// Owner returns the owner token this handle was created or converted
// with.
func (l Local[T]) Owner() Owner { return l.owner }

// Clone increments the non-atomic local counter. Must be called by
// the owning goroutine; calling from any other goroutine is a misuse
// of the contract and panics.
func (l Local[T]) Clone() Local[T] {
	l.checkOwner()
	l.p.local++
	return Local[T]{p: l.p, owner: l.owner}
}

// ToShared atomically increments the shared counter and returns a
// handle usable from any goroutine. This is the one atomic operation
// paid when handing a packet off to a worker goroutine.
func (l Local[T]) ToShared() Shared[T] {
	incrChecked(&l.p.shared)
	return Shared[T]{p: l.p}
}

// Downgrade produces a Weak handle that does not keep the value
// alive.
func (l Local[T]) Downgrade() Weak[T] {
	incrChecked(&l.p.weak)
	return Weak[T]{p: l.p}
}

// Drop decrements the local counter. When it reaches zero, the owner
// slot is cleared (permitting a future ToLocal/UpgradeLocal from a
// different goroutine) and the implicit shared unit held by the local
// side is released.
func (l Local[T]) Drop() {
	l.checkOwner()
	l.p.local--
	if l.p.local == 0 {
		l.p.owner.Store(uint64(noOwner))
		release(l.p)
	}
}

// Clone atomically increments the shared counter.
func (s Shared[T]) Clone() Shared[T] {
	incrChecked(&s.p.shared)
	return Shared[T]{p: s.p}
}

// Value returns a pointer to the underlying value.
func (s Shared[T]) Value() *T { return &s.p.value }

// ToLocal converts a Shared handle back to a Local one owned by
// owner. It succeeds if no goroutine currently owns the allocation,
// or if owner is already the current owner; otherwise it fails
// because another goroutine holds exclusive Local access.
func (s Shared[T]) ToLocal(owner Owner) (Local[T], bool) {
	for {
		cur := Owner(s.p.owner.Load())
		if cur != noOwner && cur != owner {
			return Local[T]{}, false
		}
		if cur == owner {
			break
		}
		if s.p.owner.CompareAndSwap(uint64(noOwner), uint64(owner)) {
			break
		}
		// Lost a race with another goroutine claiming ownership; retry.
	}
	s.p.local++
	return Local[T]{p: s.p, owner: owner}, true
}

// Downgrade produces a Weak handle.
func (s Shared[T]) Downgrade() Weak[T] {
	incrChecked(&s.p.weak)
	return Weak[T]{p: s.p}
}

// Drop atomically decrements the shared counter, releasing the value
// when it reaches zero.
func (s Shared[T]) Drop() {
	release(s.p)
}

func release[T any](p *inner[T]) {
	if p.shared.Add(-1) == 0 {
		if p.onRelease != nil {
			p.onRelease(&p.value)
		}
		// The baseline weak unit implied by "at least one strong
		// reference exists" is released now that shared hit zero.
		p.weak.Add(-1)
	}
}

// UpgradeShared attempts to produce a new Shared handle from a Weak
// one. It fails if the value has already been released (shared count
// at zero): resurrection from zero is never possible.
func (w Weak[T]) UpgradeShared() (Shared[T], bool) {
	for {
		cur := w.p.shared.Load()
		if cur == 0 {
			return Shared[T]{}, false
		}
		if w.p.shared.CompareAndSwap(cur, cur+1) {
			return Shared[T]{p: w.p}, true
		}
	}
}

// UpgradeLocal attempts to produce a new Local handle owned by owner.
// It fails under the same conditions as UpgradeShared, or if another
// goroutine currently holds exclusive Local ownership.
func (w Weak[T]) UpgradeLocal(owner Owner) (Local[T], bool) {
	s, ok := w.UpgradeShared()
	if !ok {
		return Local[T]{}, false
	}
	l, ok := s.ToLocal(owner)
	if !ok {
		s.Drop()
		return Local[T]{}, false
	}
	return l, true
}

// Drop decrements the weak counter. It never releases the value (only
// Local/Shared drops do that).
func (w Weak[T]) Drop() {
	w.p.weak.Add(-1)
}
