package nethuns

import "github.com/nethuns-go/nethuns/rc"

// recvPayload is the value a RecvHandle's dual-counted handle wraps:
// a borrowed view of a slot's header and payload, plus the status
// cell the handle's release hook writes Free back into.
type recvPayload struct {
	id     uint64
	hdr    *Pkthdr
	buf    []byte
	status *AtomicStatus
}

// RecvHandle is the application-visible borrow of a received slot
// (§4.F): the slot's id, a view of its Pkthdr, and its payload
// truncated to caplen. Dropping it writes Free to the slot's status
// with release ordering, the RAII-style deferred release spec.md
// calls for.
type RecvHandle struct {
	local rc.Local[recvPayload]
}

// NewRecvHandle builds a RecvHandle owned by owner, borrowing slot's
// header and payload. Shared by the netmap driver's Recv and the pcap
// socket's Read, which publish slots the same way but from different
// sources.
func NewRecvHandle(owner rc.Owner, slot *Slot) *RecvHandle {
	payload := recvPayload{
		id:     slot.ID,
		hdr:    &slot.Pkthdr,
		buf:    slot.Packet,
		status: &slot.Status,
	}
	local := rc.New(owner, payload, func(p *recvPayload) {
		p.status.StoreRelease(StatusFree)
	})
	return &RecvHandle{local: local}
}

// ID returns the slot index this handle borrows.
func (h *RecvHandle) ID() uint64 { return h.local.Value().id }

// Pkthdr returns the borrowed packet metadata.
func (h *RecvHandle) Pkthdr() *Pkthdr { return h.local.Value().hdr }

// Payload returns the borrowed packet bytes, truncated to Pkthdr().Caplen.
func (h *RecvHandle) Payload() []byte { return h.local.Value().buf }

// Clone increments the handle's non-atomic local reference count; it
// must be called from the same goroutine that owns h (the one that
// called Recv, or that most recently won ToLocal).
func (h *RecvHandle) Clone() *RecvHandle {
	return &RecvHandle{local: h.local.Clone()}
}

// Drop releases this reference. Once every Local/Shared reference
// derived from the same Recv has been dropped, the slot's status is
// released back to Free.
func (h *RecvHandle) Drop() { h.local.Drop() }

// ToShared converts to a SharedRecvHandle usable from any goroutine,
// paying the one atomic increment this cross-thread handoff costs.
func (h *RecvHandle) ToShared() SharedRecvHandle {
	return SharedRecvHandle{shared: h.local.ToShared()}
}

// SharedRecvHandle is the cross-goroutine-safe form of a RecvHandle,
// produced by RecvHandle.ToShared.
type SharedRecvHandle struct {
	shared rc.Shared[recvPayload]
}

func (s SharedRecvHandle) ID() uint64       { return s.shared.Value().id }
func (s SharedRecvHandle) Pkthdr() *Pkthdr  { return s.shared.Value().hdr }
func (s SharedRecvHandle) Payload() []byte  { return s.shared.Value().buf }
func (s SharedRecvHandle) Clone() SharedRecvHandle {
	return SharedRecvHandle{shared: s.shared.Clone()}
}
func (s SharedRecvHandle) Drop() { s.shared.Drop() }

// ToLocal converts back to a goroutine-owned RecvHandle, failing iff
// another goroutine currently holds Local ownership.
func (s SharedRecvHandle) ToLocal(owner rc.Owner) (*RecvHandle, bool) {
	l, ok := s.shared.ToLocal(owner)
	if !ok {
		return nil, false
	}
	return &RecvHandle{local: l}, true
}
