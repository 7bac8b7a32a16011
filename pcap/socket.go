package pcap

import (
	"github.com/nethuns-go/nethuns"
	"github.com/nethuns-go/nethuns/rc"
)

// backend is the set of file operations a pcap Socket delegates to,
// implemented by builtinBackend and externalBackend.
type backend interface {
	read(slot *nethuns.Slot, packetSize uint32) error
	write(hdr *nethuns.Pkthdr, packet []byte) (int, error)
	store(hdr *nethuns.Pkthdr, packet []byte) (uint32, error)
	rewind() error
	close() error
}

// ReaderKind selects which backend Open uses to parse the capture
// file: the module's own format parser, or one delegating to an
// external capture library.
type ReaderKind int

const (
	// Builtin reads and writes the tcpdump dump-file format directly.
	Builtin ReaderKind = iota
	// External only reads and rewinds; Write and Store report
	// ErrNotSupported.
	External
)

// Socket is a file-backed packet source or sink with the same
// RecvHandle-based borrow discipline as a live netmap socket, so
// application code written against one works unchanged against the
// other.
type Socket struct {
	ring  *nethuns.NethunsRing
	owner rc.Owner
	b     backend
}

// Open opens filename for reading (writing=false) or creates it for
// writing (writing=true), sized for numblocks*numpackets slots of
// packetSize bytes each. kind is ignored when writing=true: only the
// builtin backend can write.
func Open(owner rc.Owner, filename string, writing bool, kind ReaderKind, numblocks, numpackets, packetSize int) (*Socket, error) {
	n := numblocks * numpackets
	ring := nethuns.NewRing(n, packetSize)

	var be backend
	var err error
	switch {
	case writing:
		be, err = openBuiltinWrite(filename, uint32(packetSize))
	case kind == External:
		be, err = openExternalRead(filename, uint32(packetSize))
	default:
		be, err = openBuiltinRead(filename, uint32(packetSize))
	}
	if err != nil {
		return nil, err
	}

	return &Socket{ring: ring, owner: owner, b: be}, nil
}

// Read pulls the next record from the file into a free ring slot and
// returns a borrowed handle to it, mirroring a live socket's Recv.
func (s *Socket) Read() (*nethuns.RecvHandle, error) {
	head := s.ring.Head()
	slot := s.ring.GetSlot(head)
	if slot.Status.LoadAcquire() != nethuns.StatusFree {
		return nil, ErrInUse
	}

	if err := s.b.read(slot, uint32(s.ring.PacketSize())); err != nil {
		return nil, err
	}

	slot.Status.StoreRelease(nethuns.StatusInUse)
	s.ring.AdvanceHead()

	return nethuns.NewRecvHandle(s.owner, slot), nil
}

// Write appends hdr and packet to the file verbatim. Only meaningful
// on a Socket opened for writing with the builtin backend.
func (s *Socket) Write(hdr *nethuns.Pkthdr, packet []byte) (int, error) {
	return s.b.write(hdr, packet)
}

// Store builds a pcap record from a live capture's header (including
// splicing any offloaded VLAN tag back into the bytes) and appends it
// to the file. It returns the record's caplen when no tag is spliced
// in, and caplen-16 (the bytes written after the 12-byte prefix and
// the 4-byte tag) when one is.
func (s *Socket) Store(hdr *nethuns.Pkthdr, packet []byte) (uint32, error) {
	return s.b.store(hdr, packet)
}

// Rewind seeks back to the first record, just past the file header.
func (s *Socket) Rewind() error {
	return s.b.rewind()
}

// Close releases the underlying file.
func (s *Socket) Close() error {
	return s.b.close()
}
