package rc

import "sync/atomic"

// Owner identifies the single goroutine (conceptually, "thread") that
// is allowed to hold and mutate Local handles for a given allocation.
// Mint one with NewOwner, typically once per socket-owning goroutine,
// and pass it to every Local-side call that goroutine makes.
type Owner uint64

// noOwner is the sentinel stored when no goroutine currently holds a
// Local handle for an allocation.
const noOwner Owner = 0

var ownerSeq atomic.Uint64

// NewOwner mints a fresh, globally unique Owner token.
func NewOwner() Owner {
	return Owner(ownerSeq.Add(1))
}
