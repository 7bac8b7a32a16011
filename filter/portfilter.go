package filter

import "encoding/binary"

const (
	ethernetHdrLen = 14
	vlanHdrLen     = 4
	ipv4HdrLen     = 20
	ipv6HdrLen     = 40
	tcpHdrLen      = 20
	udpHdrLen      = 8
	macAddrLen     = 6
)

const (
	etherTypeIPv4 = 0x0800
	etherTypeVlan = 0x8100
	etherTypeIPv6 = 0x86dd
)

const (
	protoTCP = 6
	protoUDP = 17
)

func peelEthernet(p []byte) (offset int, ok bool) {
	return ethernetHdrLen, len(p) >= ethernetHdrLen
}

func ethernetEtherType(eth []byte) uint16 {
	return binary.BigEndian.Uint16(eth[2*macAddrLen:])
}

func peelVlan(p []byte) (offset int, ok bool) {
	return vlanHdrLen, len(p) >= vlanHdrLen
}

func vlanEtherType(tag []byte) uint16 {
	return binary.BigEndian.Uint16(tag)
}

func peelIPv4(p []byte) (offset int, ok bool) {
	if len(p) < ipv4HdrLen {
		// IPv4 header needs at least 20 bytes.
		return 0, false
	}
	ver, ihl := int(p[0]&0xf0)>>4, int(p[0]&0xf)<<2
	if ver != 4 || ihl < ipv4HdrLen {
		// mangled version or header length
		return 0, false
	}
	return ihl, len(p) >= int(binary.BigEndian.Uint16(p[2:4]))
}

func ipv4Proto(ip []byte) byte { return ip[9] }

// peelIPv6 peels the fixed 40-byte IPv6 header.
//
// TODO: extension headers chained after it (hop-by-hop, routing,
// fragment...) are not walked, so ipv6NextHeader is only correct when
// the base header's next-header field already names the transport
// protocol.
func peelIPv6(p []byte) (offset int, ok bool) {
	if len(p) < ipv6HdrLen {
		return 0, false
	}
	payloadLen := int(binary.BigEndian.Uint16(p[4:6]))
	return ipv6HdrLen, len(p) >= ipv6HdrLen+payloadLen
}

func ipv6NextHeader(ip []byte) byte { return ip[6] }

func peelTCP(p []byte) (offset int, ok bool) {
	if len(p) < tcpHdrLen {
		return 0, false
	}
	offset = int(p[12]&0xf0) >> 2
	return offset, len(p) >= offset
}

func tcpSrcPort(tcp []byte) uint16 { return binary.BigEndian.Uint16(tcp[0:2]) }
func tcpDstPort(tcp []byte) uint16 { return binary.BigEndian.Uint16(tcp[2:4]) }

func peelUDP(p []byte) (offset int, ok bool) {
	if len(p) < udpHdrLen {
		return 0, false
	}
	totalLen := int(binary.BigEndian.Uint16(p[4:6]))
	return udpHdrLen, len(p) >= totalLen && totalLen >= udpHdrLen
}

func udpSrcPort(udp []byte) uint16 { return binary.BigEndian.Uint16(udp[0:2]) }
func udpDstPort(udp []byte) uint16 { return binary.BigEndian.Uint16(udp[2:4]) }

// peelToTransport walks the Ethernet header, any stacked VLAN tags,
// and an IPv4 or IPv6 header, returning the transport-layer protocol
// number and the bytes starting at its header. ok is false if p is
// too short to hold a full chain, or the network layer is neither
// IPv4 nor IPv6.
func peelToTransport(p []byte) (transport []byte, proto byte, ok bool) {
	offset, ok := peelEthernet(p)
	if !ok {
		return nil, 0, false
	}
	eth := p[:offset]
	p = p[offset:]
	etherType := ethernetEtherType(eth)

	for etherType == etherTypeVlan {
		if offset, ok = peelVlan(p); !ok {
			return nil, 0, false
		}
		tag := p[:offset]
		p = p[offset:]
		etherType = vlanEtherType(tag)
	}

	switch etherType {
	case etherTypeIPv4:
		if offset, ok = peelIPv4(p); !ok {
			return nil, 0, false
		}
		ip := p[:offset]
		return p[offset:], ipv4Proto(ip), true
	case etherTypeIPv6:
		if offset, ok = peelIPv6(p); !ok {
			return nil, 0, false
		}
		ip := p[:offset]
		return p[offset:], ipv6NextHeader(ip), true
	default:
		return nil, 0, false
	}
}

// TCPPortFilter returns a Predicate accepting TCP segments whose
// source or destination port is port.
func TCPPortFilter(port uint16) Predicate {
	return func(p []byte) bool {
		transport, proto, ok := peelToTransport(p)
		if !ok || proto != protoTCP {
			return false
		}
		offset, ok := peelTCP(transport)
		if !ok {
			return false
		}
		tcp := transport[:offset]
		return tcpSrcPort(tcp) == port || tcpDstPort(tcp) == port
	}
}

// UDPPortFilter returns a Predicate accepting UDP datagrams whose
// source or destination port is port.
func UDPPortFilter(port uint16) Predicate {
	return func(p []byte) bool {
		transport, proto, ok := peelToTransport(p)
		if !ok || proto != protoUDP {
			return false
		}
		offset, ok := peelUDP(transport)
		if !ok {
			return false
		}
		udp := transport[:offset]
		return udpSrcPort(udp) == port || udpDstPort(udp) == port
	}
}
