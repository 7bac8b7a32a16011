package pcap

import (
	"io"
	"os"
	"time"

	"github.com/nethuns-go/nethuns"
)

// pcapMode tracks which half of §4.G's state machine a builtinBackend
// was opened into: Opened(read) allows read/rewind, Opened(write)
// allows write/store, and the two never mix.
type pcapMode int

const (
	modeRead pcapMode = iota
	modeWrite
)

// builtinBackend reads and writes the tcpdump dump-file format
// directly, without delegating to an external capture library.
type builtinBackend struct {
	file    *os.File
	magic   uint32
	snaplen uint32
	mode    pcapMode
}

func openBuiltinRead(filename string, packetSize uint32) (*builtinBackend, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	var hb [fileHeaderSize]byte
	if _, err := io.ReadFull(f, hb[:]); err != nil {
		f.Close()
		return nil, err
	}
	hdr := unmarshalFileHeader(hb[:])

	switch hdr.magic {
	case tcpdumpMagic, kuznetzovTcpdumpMagic, nsecTcpdumpMagic:
	default:
		f.Close()
		return nil, &UnsupportedMagicError{Magic: hdr.magic}
	}

	snaplen := hdr.snaplen
	if packetSize < snaplen {
		snaplen = packetSize
	}

	return &builtinBackend{file: f, magic: hdr.magic, snaplen: snaplen, mode: modeRead}, nil
}

func openBuiltinWrite(filename string, packetSize uint32) (*builtinBackend, error) {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	hdr := fileHeader{
		magic:        tcpdumpMagic,
		versionMajor: 2,
		versionMinor: 4,
		snaplen:      0xffff,
		linktype:     dltEN10MB,
	}
	hb := hdr.marshal()
	if _, err := f.Write(hb[:]); err != nil {
		f.Close()
		return nil, err
	}

	return &builtinBackend{file: f, magic: tcpdumpMagic, snaplen: packetSize, mode: modeWrite}, nil
}

// read fills slot with the next record's header and payload, truncating
// the payload to the ring's packet size and skipping any remainder
// still on disk, exactly as the reference reader does.
func (b *builtinBackend) read(slot *nethuns.Slot, packetSize uint32) error {
	if b.mode != modeRead {
		return nethuns.ErrMixedPcapMode
	}

	var raw [patchedPktHeaderSize]byte

	var hb []byte
	if b.magic == kuznetzovTcpdumpMagic {
		hb = raw[:patchedPktHeaderSize]
	} else {
		hb = raw[:pktHeaderSize]
	}
	if _, err := io.ReadFull(b.file, hb); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrEOF
		}
		return err
	}
	ph := unmarshalPktHeader(hb[:pktHeaderSize])

	bytes := packetSize
	if ph.caplen < bytes {
		bytes = ph.caplen
	}

	full := slot.Packet[:cap(slot.Packet)]
	if _, err := io.ReadFull(b.file, full[:bytes]); err != nil {
		return err
	}
	slot.Packet = full[:bytes]

	if b.magic == nsecTcpdumpMagic {
		slot.Pkthdr.Timestamp = time.Unix(ph.tvSec, ph.tvUsec)
	} else {
		slot.Pkthdr.Timestamp = time.Unix(ph.tvSec, ph.tvUsec*1000)
	}
	slot.Pkthdr.Len = ph.length
	slot.Pkthdr.Caplen = bytes

	if ph.caplen > bytes {
		skip := int64(ph.caplen) - int64(bytes)
		if _, err := b.file.Seek(skip, io.SeekCurrent); err != nil {
			return err
		}
	}

	return nil
}

// write appends a raw header/payload pair verbatim, for callers that
// already have a pcap-format record in hand.
func (b *builtinBackend) write(hdr *nethuns.Pkthdr, packet []byte) (int, error) {
	if b.mode != modeWrite {
		return 0, nethuns.ErrMixedPcapMode
	}

	ph := pktHeader{
		tvSec:  hdr.Timestamp.Unix(),
		tvUsec: int64(hdr.Timestamp.Nanosecond()) / 1000,
		caplen: hdr.Caplen,
		length: hdr.Len,
	}
	phb := ph.marshal()
	if _, err := b.file.Write(phb[:]); err != nil {
		return 0, err
	}
	if _, err := b.file.Write(packet); err != nil {
		return 0, err
	}
	return len(packet), nil
}

// store builds a pcap record from a live capture's header, splicing
// an offloaded VLAN tag back into the bytes on the wire when the NIC
// stripped one, so the file faithfully reproduces what was on the
// wire.
func (b *builtinBackend) store(hdr *nethuns.Pkthdr, packet []byte) (uint32, error) {
	if b.mode != modeWrite {
		return 0, nethuns.ErrMixedPcapMode
	}

	hasVlan := uint32(0)
	if hdr.HasOffloadedVlan() {
		hasVlan = 1
	}

	caplen := uint32(len(packet))
	want := hdr.Caplen + 4*hasVlan
	if want < caplen {
		caplen = want
	}
	length := hdr.Len + 4*hasVlan

	ph := pktHeader{
		tvSec:  hdr.Timestamp.Unix(),
		tvUsec: int64(hdr.Timestamp.Nanosecond()) / 1000,
		caplen: caplen,
		length: length,
	}
	phb := ph.marshal()
	if _, err := b.file.Write(phb[:]); err != nil {
		return 0, err
	}

	clen := caplen
	if hasVlan != 0 {
		if _, err := b.file.Write(packet[:12]); err != nil {
			return 0, err
		}
		var tagBytes [4]byte
		tagBytes[0] = byte(hdr.OffloadedVlanTPID >> 8)
		tagBytes[1] = byte(hdr.OffloadedVlanTPID)
		tagBytes[2] = byte(hdr.OffloadedVlanTCI >> 8)
		tagBytes[3] = byte(hdr.OffloadedVlanTCI)
		if _, err := b.file.Write(tagBytes[:]); err != nil {
			return 0, err
		}
		clen = caplen - 16
		if _, err := b.file.Write(packet[12 : clen+12]); err != nil {
			return 0, err
		}
	} else {
		if _, err := b.file.Write(packet[:caplen]); err != nil {
			return 0, err
		}
	}

	return clen, nil
}

func (b *builtinBackend) rewind() error {
	if b.mode != modeRead {
		return nethuns.ErrMixedPcapMode
	}
	_, err := b.file.Seek(fileHeaderSize, io.SeekStart)
	return err
}

func (b *builtinBackend) close() error { return b.file.Close() }
