package pcap

import "github.com/nethuns-go/nethuns"

// externalBackend stands in for integration with a capture library
// outside this module's control: it can read and rewind a file it did
// not write, but offers no write path, mirroring spec.md's "external
// reader: read/rewind only" contract. It shares the builtin backend's
// file-format parsing rather than duplicating it, since the wire
// format is the same either way.
type externalBackend struct {
	inner *builtinBackend
}

func openExternalRead(filename string, packetSize uint32) (*externalBackend, error) {
	b, err := openBuiltinRead(filename, packetSize)
	if err != nil {
		return nil, err
	}
	return &externalBackend{inner: b}, nil
}

func (e *externalBackend) read(slot *nethuns.Slot, packetSize uint32) error {
	return e.inner.read(slot, packetSize)
}

func (e *externalBackend) rewind() error { return e.inner.rewind() }

func (e *externalBackend) write(*nethuns.Pkthdr, []byte) (int, error) {
	return 0, ErrNotSupported
}

func (e *externalBackend) store(*nethuns.Pkthdr, []byte) (uint32, error) {
	return 0, ErrNotSupported
}

func (e *externalBackend) close() error { return e.inner.close() }
