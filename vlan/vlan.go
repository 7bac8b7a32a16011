// Package vlan implements the bit-exact IEEE 802.1Q tag inspection
// helpers: extracting VID/PCP/DEI from a TCI, and locating a TPID/TCI
// pair either in a captured frame's bytes or in out-of-band fields a
// NIC reported after stripping the tag via hardware offload.
package vlan

import "encoding/binary"

const (
	tpid8021Q  = 0x8100
	tpid8021AD = 0x88a8
)

// VID extracts the 12-bit VLAN identifier from a TCI.
func VID(tci uint16) uint16 { return tci & 0x0FFF }

// PCP extracts the 3-bit priority code point from a TCI.
func PCP(tci uint16) uint8 { return uint8((tci >> 13) & 0x7) }

// DEI extracts the 1-bit drop-eligible-indicator from a TCI.
func DEI(tci uint16) uint8 { return uint8((tci >> 12) & 0x1) }

// TPID returns the EtherType at the start of payload if it names a
// VLAN tag (0x8100 or 0x88a8), else 0. payload must begin at the
// EtherType field following the two MAC addresses (offset 12 of a
// standard Ethernet II frame).
func TPID(payload []byte) uint16 {
	if len(payload) < 2 {
		return 0
	}
	et := binary.BigEndian.Uint16(payload)
	if et == tpid8021Q || et == tpid8021AD {
		return et
	}
	return 0
}

// TCI parses the 16-bit Tag Control Information field following the
// TPID, returning 0 if payload doesn't start with a recognized VLAN
// EtherType.
func TCI(payload []byte) uint16 {
	if TPID(payload) == 0 || len(payload) < 4 {
		return 0
	}
	return binary.BigEndian.Uint16(payload[2:])
}

// OffloadedFields is the subset of a Pkthdr a caller needs to pass in
// order to prefer hardware-reported VLAN fields over ones parsed from
// the payload; mirrors Pkthdr.OffloadedVlanTPID/TCI so this package
// does not depend on the root package.
type OffloadedFields struct {
	TPID uint16
	TCI  uint16
}

// TPIDPreferOffload returns hdr.TPID if the NIC reported a stripped
// tag out-of-band, else falls back to parsing payload.
func TPIDPreferOffload(hdr OffloadedFields, payload []byte) uint16 {
	if hdr.TPID != 0 {
		return hdr.TPID
	}
	return TPID(payload)
}

// TCIPreferOffload is TPIDPreferOffload's TCI counterpart.
func TCIPreferOffload(hdr OffloadedFields, payload []byte) uint16 {
	if hdr.TPID != 0 {
		return hdr.TCI
	}
	return TCI(payload)
}
