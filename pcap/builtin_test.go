package pcap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nethuns-go/nethuns"
	"github.com/nethuns-go/nethuns/rc"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.pcap")
	owner := rc.NewOwner()

	w, err := Open(owner, path, true, Builtin, 1, 4, 128)
	if err != nil {
		t.Fatalf("open for write: %v", err)
	}

	payload := []byte("hello zero-copy world")
	hdr := &nethuns.Pkthdr{
		Timestamp: time.Unix(1000, 500000),
		Caplen:    uint32(len(payload)),
		Len:       uint32(len(payload)),
	}
	if _, err := w.Store(hdr, payload); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r, err := Open(owner, path, false, Builtin, 1, 4, 128)
	if err != nil {
		t.Fatalf("open for read: %v", err)
	}
	defer r.Close()

	h, err := r.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	defer h.Drop()

	if string(h.Payload()) != string(payload) {
		t.Fatalf("payload mismatch: got %q want %q", h.Payload(), payload)
	}
	if h.Pkthdr().Len != uint32(len(payload)) {
		t.Fatalf("len mismatch: got %d want %d", h.Pkthdr().Len, len(payload))
	}
}

func TestStoreSplicesOffloadedVlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vlan.pcap")
	owner := rc.NewOwner()

	w, err := Open(owner, path, true, Builtin, 1, 4, 128)
	if err != nil {
		t.Fatalf("open for write: %v", err)
	}

	// 12 bytes of dst/src MAC, then an EtherType, then payload. The
	// captured frame (30 bytes) is longer than what was captured
	// pre-tag (20 bytes), leaving room for the 4-byte tag the NIC
	// stripped to be spliced back in.
	packet := make([]byte, 30)
	for i := range packet {
		packet[i] = byte(i)
	}

	hdr := &nethuns.Pkthdr{
		Timestamp:         time.Unix(1, 0),
		Caplen:            20,
		Len:               20,
		OffloadedVlanTPID: 0x8100,
		OffloadedVlanTCI:  0x002a,
	}

	clen, err := w.Store(hdr, packet)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	// written = 12 (prefix) + 4 (tag) + clen-from-12-to-end; returned
	// clen is header.caplen-16, the bytes copied after the tag.
	wantClen := hdr.Caplen + 4 - 16
	if clen != wantClen {
		t.Fatalf("clen = %d, want %d", clen, wantClen)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	recStart := fileHeaderSize + pktHeaderSize
	// bytes [0:12) of the packet, unchanged
	for i := 0; i < 12; i++ {
		if raw[recStart+i] != packet[i] {
			t.Fatalf("prefix byte %d mismatch", i)
		}
	}
	// spliced TPID/TCI, big-endian
	if raw[recStart+12] != 0x81 || raw[recStart+13] != 0x00 {
		t.Fatalf("tpid not spliced correctly: %x %x", raw[recStart+12], raw[recStart+13])
	}
	if raw[recStart+14] != 0x00 || raw[recStart+15] != 0x2a {
		t.Fatalf("tci not spliced correctly: %x %x", raw[recStart+14], raw[recStart+15])
	}
}

func TestOpenRejectsUnsupportedMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pcap")
	bad := fileHeader{magic: 0xdeadbeef, versionMajor: 2, versionMinor: 4, linktype: dltEN10MB}
	hb := bad.marshal()
	if err := os.WriteFile(path, hb[:], 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := Open(rc.NewOwner(), path, false, Builtin, 1, 4, 128)
	if err == nil {
		t.Fatal("expected error for unsupported magic")
	}
	var magicErr *UnsupportedMagicError
	if !asUnsupportedMagic(err, &magicErr) {
		t.Fatalf("expected *UnsupportedMagicError, got %v (%T)", err, err)
	}
	if magicErr.Magic != 0xdeadbeef {
		t.Fatalf("magic = %x, want %x", magicErr.Magic, 0xdeadbeef)
	}
}

func TestRewindSeeksPastFileHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rw.pcap")
	owner := rc.NewOwner()

	w, err := Open(owner, path, true, Builtin, 1, 4, 128)
	if err != nil {
		t.Fatalf("open for write: %v", err)
	}
	payload := []byte("abc")
	hdr := &nethuns.Pkthdr{Timestamp: time.Unix(0, 0), Caplen: 3, Len: 3}
	if _, err := w.Store(hdr, payload); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := Open(owner, path, false, Builtin, 1, 4, 128)
	if err != nil {
		t.Fatalf("open for read: %v", err)
	}
	defer r.Close()

	if _, err := r.Read(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := r.Rewind(); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	h, err := r.Read()
	if err != nil {
		t.Fatalf("read after rewind: %v", err)
	}
	defer h.Drop()
	if string(h.Payload()) != string(payload) {
		t.Fatalf("payload after rewind mismatch: got %q", h.Payload())
	}
}

func TestCrossModeCallsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mode.pcap")
	owner := rc.NewOwner()

	w, err := Open(owner, path, true, Builtin, 1, 4, 128)
	if err != nil {
		t.Fatalf("open for write: %v", err)
	}
	if _, err := w.Read(); !errors.Is(err, nethuns.ErrMixedPcapMode) {
		t.Fatalf("Read on write-opened socket = %v, want ErrMixedPcapMode", err)
	}
	if err := w.Rewind(); !errors.Is(err, nethuns.ErrMixedPcapMode) {
		t.Fatalf("Rewind on write-opened socket = %v, want ErrMixedPcapMode", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r, err := Open(owner, path, false, Builtin, 1, 4, 128)
	if err != nil {
		t.Fatalf("open for read: %v", err)
	}
	defer r.Close()

	hdr := &nethuns.Pkthdr{Timestamp: time.Unix(0, 0), Caplen: 3, Len: 3}
	if _, err := r.Write(hdr, []byte("abc")); !errors.Is(err, nethuns.ErrMixedPcapMode) {
		t.Fatalf("Write on read-opened socket = %v, want ErrMixedPcapMode", err)
	}
	if _, err := r.Store(hdr, []byte("abc")); !errors.Is(err, nethuns.ErrMixedPcapMode) {
		t.Fatalf("Store on read-opened socket = %v, want ErrMixedPcapMode", err)
	}
}

func asUnsupportedMagic(err error, target **UnsupportedMagicError) bool {
	if e, ok := err.(*UnsupportedMagicError); ok {
		*target = e
		return true
	}
	return false
}
