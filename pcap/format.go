// Package pcap implements the on-disk packet sources and sinks: a
// built-in reader/writer for the standard, Kuznetzov and nanosecond
// tcpdump variants, and a stub for external-reader integration.
package pcap

import "encoding/binary"

// Magic numbers identifying which tcpdump dump-file variant a file
// uses. Only the three variants spec.md names are supported; the
// FMesquita and Navtel variants the original implementation also
// recognizes are out of scope.
const (
	tcpdumpMagic          uint32 = 0xa1b2c3d4
	kuznetzovTcpdumpMagic uint32 = 0xa1b2cd34
	nsecTcpdumpMagic      uint32 = 0xa1b23c4d
)

// fileHeaderSize is the 24-byte libpcap dump-file header: magic,
// version_major, version_minor, thiszone, sigfigs, snaplen, linktype.
const fileHeaderSize = 24

// dltEN10MB is the Ethernet link-layer type written into new capture
// files.
const dltEN10MB = 1

type fileHeader struct {
	magic        uint32
	versionMajor uint16
	versionMinor uint16
	thiszone     uint32
	sigfigs      uint32
	snaplen      uint32
	linktype     uint32
}

func (h fileHeader) marshal() [fileHeaderSize]byte {
	var b [fileHeaderSize]byte
	binary.LittleEndian.PutUint32(b[0:4], h.magic)
	binary.LittleEndian.PutUint16(b[4:6], h.versionMajor)
	binary.LittleEndian.PutUint16(b[6:8], h.versionMinor)
	binary.LittleEndian.PutUint32(b[8:12], h.thiszone)
	binary.LittleEndian.PutUint32(b[12:16], h.sigfigs)
	binary.LittleEndian.PutUint32(b[16:20], h.snaplen)
	binary.LittleEndian.PutUint32(b[20:24], h.linktype)
	return b
}

func unmarshalFileHeader(b []byte) fileHeader {
	return fileHeader{
		magic:        binary.LittleEndian.Uint32(b[0:4]),
		versionMajor: binary.LittleEndian.Uint16(b[4:6]),
		versionMinor: binary.LittleEndian.Uint16(b[6:8]),
		thiszone:     binary.LittleEndian.Uint32(b[8:12]),
		sigfigs:      binary.LittleEndian.Uint32(b[12:16]),
		snaplen:      binary.LittleEndian.Uint32(b[16:20]),
		linktype:     binary.LittleEndian.Uint32(b[20:24]),
	}
}

// pktHeaderSize is the 24-byte per-record header shared by all three
// supported variants: {tv_sec, tv_usec int64; caplen, len uint32}.
const pktHeaderSize = 24

// patchedPktHeaderSize is pktHeaderSize plus the Kuznetzov extension
// {index int32, protocol uint16, pkt_type uint8}, padded to the C
// struct's natural 8-byte alignment (31 payload bytes rounded up to 32).
const patchedPktHeaderSize = 32

type pktHeader struct {
	tvSec  int64
	tvUsec int64
	caplen uint32
	length uint32
}

func (h pktHeader) marshal() [pktHeaderSize]byte {
	var b [pktHeaderSize]byte
	binary.LittleEndian.PutUint64(b[0:8], uint64(h.tvSec))
	binary.LittleEndian.PutUint64(b[8:16], uint64(h.tvUsec))
	binary.LittleEndian.PutUint32(b[16:20], h.caplen)
	binary.LittleEndian.PutUint32(b[20:24], h.length)
	return b
}

func unmarshalPktHeader(b []byte) pktHeader {
	return pktHeader{
		tvSec:  int64(binary.LittleEndian.Uint64(b[0:8])),
		tvUsec: int64(binary.LittleEndian.Uint64(b[8:16])),
		caplen: binary.LittleEndian.Uint32(b[16:20]),
		length: binary.LittleEndian.Uint32(b[20:24]),
	}
}
