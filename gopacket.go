package nethuns

import "github.com/google/gopacket"

var _ gopacket.ZeroCopyPacketDataSource = (*BoundSocket)(nil)
var _ gopacket.PacketDataSource = (*BoundSocket)(nil)

// captureInfo builds gopacket.CaptureInfo metadata from a received
// packet's header.
func (b *BoundSocket) captureInfo(h *RecvHandle) gopacket.CaptureInfo {
	hdr := h.Pkthdr()
	return gopacket.CaptureInfo{
		Timestamp:      hdr.Timestamp,
		CaptureLength:  int(hdr.Caplen),
		Length:         int(hdr.Len),
		InterfaceIndex: b.ifIndex,
	}
}

// ZeroCopyReadPacketData reads the next packet and returns a view
// directly into kernel-mapped memory, valid only until the next call
// (the handle backing it is dropped immediately, as spec.md's
// zero-copy contract already requires the application to be done
// with a packet before reclaiming its buffer on the following recv).
// Satisfies gopacket.ZeroCopyPacketDataSource.
func (b *BoundSocket) ZeroCopyReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error) {
	h, err := b.Recv()
	if err != nil {
		return nil, gopacket.CaptureInfo{}, err
	}
	data = h.Payload()
	ci = b.captureInfo(h)
	h.Drop()
	return data, ci, nil
}

// ReadPacketData reads the next packet and returns an owned copy,
// safe to retain past the next call. Satisfies gopacket.PacketDataSource.
func (b *BoundSocket) ReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error) {
	h, err := b.Recv()
	if err != nil {
		return nil, gopacket.CaptureInfo{}, err
	}
	data = make([]byte, len(h.Payload()))
	copy(data, h.Payload())
	ci = b.captureInfo(h)
	h.Drop()
	return data, ci, nil
}
