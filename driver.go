package nethuns

// Stats reports driver counters. It is always zero-valued for the
// netmap backend (see spec rationale: the kernel counters it could
// surface aren't wired up, per the original implementation's own
// hard-coded-zero stats() and the unresolved Open Question on whether
// to ever expose them).
type Stats struct {
	RxPackets uint64
	TxPackets uint64
	RxDropped uint64
	TxDropped uint64
}

// FilterFunc is the packet-acceptance predicate installed via
// SetFilter. It must be pure and fast: it runs on the receiving
// goroutine inside recv, before a slot is published.
type FilterFunc func(hdr *Pkthdr, payload []byte) bool

// Driver is the contract a bound socket's backend satisfies. netmap
// is the only implementation in this repository; AF_XDP, libpcap and
// TPACKET_v3 are out-of-scope external collaborators that would
// satisfy the same contract behind a different build tag, so the
// hot-path operations here take no interface-dispatch detour inside
// any single backend — BoundSocket implements these methods directly
// rather than holding this interface, and Driver exists to document
// and pin the contract every backend must honor.
type Driver interface {
	Recv() (*RecvHandle, error)
	Send(buf []byte) error
	SendSlot(id uint64, length int) error
	Flush() error
	SetFilter(f FilterFunc)
	TxringSize() (int, bool)
	PacketBufferRef(id uint64) ([]byte, bool)
	Stats() Stats
	Close() error
}
