package nethuns

import "time"

// Pkthdr is the per-packet metadata record stored alongside each
// slot's buffer: a capture timestamp, the captured and original
// lengths, the buffer index currently associated with the slot, and
// any VLAN tag the NIC stripped and reported out-of-band ("offloaded"
// VLAN fields).
type Pkthdr struct {
	Timestamp time.Time

	// Caplen is how many bytes of the frame are actually present in
	// the buffer; Len is the frame's original wire length, which can
	// exceed Caplen when packetsize truncates capture.
	Caplen uint32
	Len    uint32

	// BufIdx names the kernel buffer this slot's payload currently
	// lives in. Owned exclusively by the driver; callers must not
	// mutate it.
	BufIdx uint32

	// OffloadedVlanTPID/TCI carry a VLAN tag the NIC stripped before
	// delivery and reported via hardware offload, as opposed to one
	// still present in the captured bytes. Zero means "none reported".
	OffloadedVlanTPID uint16
	OffloadedVlanTCI  uint16
}

// HasOffloadedVlan reports whether the NIC reported a stripped VLAN
// tag out-of-band for this packet.
func (h *Pkthdr) HasOffloadedVlan() bool {
	return h.OffloadedVlanTPID != 0
}
