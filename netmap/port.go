package netmap

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrSpecTooLong is returned by Prepare when portspec does not fit in
// the kernel's IFNAMSIZ-bounded nmreq.name field. Unlike every other
// failure Prepare can return, this one reflects a malformed caller
// argument rather than the kernel or device refusing a well-formed
// request, so callers can tell the two apart with errors.Is.
var ErrSpecTooLong = errors.New("netmap: portspec too long")

// Port is a safe-ish wrapper around an open, mmap'd netmap port
// descriptor: the rough Go analogue of the C API's nmport_d plus its
// mmap'd netmap_if region, combined into one handle since Go has no
// destructor to split "prepare" from "the memory becomes valid".
type Port struct {
	fd     int
	region []byte

	memsize    uint32
	txRings    int
	rxRings    int
	extraBufs  uint32
	bufsHeadOf int // byte offset of ni_bufs_head within region
	ringOfsOf  int // byte offset of the ring_ofs[] array within region
}

// Prepare opens /dev/netmap and registers portspec (already built by
// the caller per the "{prefix}{dev}{sep}{queue}{flags}" scheme),
// requesting extraBufs additional buffers not tied to any ring slot.
// It does not fail if the device doesn't exist until the ioctl runs;
// that failure surfaces here, not in a separate "open" step, since Go
// has nothing to gain from splitting prepare/open the way the C API
// does for delayed configuration.
func Prepare(portspec string, extraBufs uint32) (*Port, error) {
	fd, err := unix.Open("/dev/netmap", unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("netmap: open /dev/netmap: %w", err)
	}

	var req nmreq
	if len(portspec) >= ifnamsiz {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %q", ErrSpecTooLong, portspec)
	}
	copy(req.name[:], portspec)
	req.arg3 = extraBufs

	if err := ioctl(fd, niocRegif, unsafe.Pointer(&req)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("netmap: NIOCREGIF %q: %w", portspec, err)
	}

	if req.arg3 != extraBufs {
		unix.Close(fd)
		return nil, fmt.Errorf("netmap: kernel granted %d extra buffers, wanted %d", req.arg3, extraBufs)
	}

	region, err := unix.Mmap(fd, 0, int(req.memsize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("netmap: mmap: %w", err)
	}

	p := &Port{
		fd:        fd,
		region:    region[req.offset:],
		memsize:   req.memsize,
		txRings:   int(req.txRings),
		rxRings:   int(req.rxRings),
		extraBufs: req.arg3,
	}
	p.bufsHeadOf = nifBufsHeadOff
	p.ringOfsOf = nifHeaderSize
	return p, nil
}

// Close unmaps the shared region and closes the file descriptor.
func (p *Port) Close() error {
	var err error
	if p.region != nil {
		// region was sliced from the original mmap; Munmap needs the
		// original base, which the slice header still points at.
		err = unix.Munmap(p.region)
		p.region = nil
	}
	if cerr := unix.Close(p.fd); err == nil {
		err = cerr
	}
	return err
}

func (p *Port) TxRingCount() int { return p.txRings }
func (p *Port) RxRingCount() int { return p.rxRings }
func (p *Port) ExtraBufsGranted() uint32 { return p.extraBufs }

// ringAt returns the Ring whose header lives at the i-th entry of
// ring_ofs (TX rings first, then RX rings, matching NETMAP_TXRING/
// NETMAP_RXRING's indexing).
func (p *Port) ringAt(i int) Ring {
	entryOff := p.ringOfsOf + i*ringOfsEntrySize
	relOfs := int(le64(p.region, entryOff))
	return newRing(p.region, relOfs)
}

// TxRing returns the i-th transmit ring, i in [0, TxRingCount()).
func (p *Port) TxRing(i int) Ring { return p.ringAt(i) }

// RxRing returns the i-th receive ring, i in [0, RxRingCount()).
func (p *Port) RxRing(i int) Ring { return p.ringAt(p.txRings + i) }

// BufsHead returns the kernel's ni_bufs_head: the index of the first
// buffer in the singly linked list of extra buffers, or 0 if empty.
func (p *Port) BufsHead() uint32 { return le32(p.region, p.bufsHeadOf) }

// SetBufsHead overwrites ni_bufs_head; used both when draining the
// list at bind time (reset to 0) and when rebuilding it at close.
func (p *Port) SetBufsHead(v uint32) { putLe32(p.region, p.bufsHeadOf, v) }

// nextFree reads the link-list "next" pointer threaded through the
// first 4 bytes of the buffer named by idx, using anyRing only to
// resolve a buf_idx to an address (any ring's buf_ofs/nr_buf_size
// apply identically, since all rings of a port share one buffer pool).
func nextFree(anyRing Ring, idx uint32) uint32 {
	return le32(anyRing.Buf(idx), 0)
}

func setNextFree(anyRing Ring, idx, next uint32) {
	putLe32(anyRing.Buf(idx), 0, next)
}

// DrainExtraBufs walks the ni_bufs_head linked list to completion,
// resets ni_bufs_head to 0, and returns every buffer index it
// visited, in list order. anyRing anchors NETMAP_BUF address
// arithmetic, per bind step 5.
func (p *Port) DrainExtraBufs(anyRing Ring) []uint32 {
	var bufs []uint32
	for idx := p.BufsHead(); idx != 0; {
		bufs = append(bufs, idx)
		next := nextFree(anyRing, idx)
		idx = next
	}
	p.SetBufsHead(0)
	return bufs
}

// RebuildExtraBufs re-threads bufs into a singly linked list anchored
// at ni_bufs_head, the inverse of DrainExtraBufs, performed at close
// so the kernel reclaims exactly the buffers it granted.
func (p *Port) RebuildExtraBufs(anyRing Ring, bufs []uint32) {
	if len(bufs) == 0 {
		p.SetBufsHead(0)
		return
	}
	for i := 0; i < len(bufs)-1; i++ {
		setNextFree(anyRing, bufs[i], bufs[i+1])
	}
	setNextFree(anyRing, bufs[len(bufs)-1], 0)
	p.SetBufsHead(bufs[0])
}

// SyncTx issues NIOCTXSYNC, asking the kernel to process every TX
// ring slot the application has published (advanced cur/head past).
func (p *Port) SyncTx() error {
	return ioctl(p.fd, niocTxsync, nil)
}

// SyncRx issues NIOCRXSYNC, asking the kernel to make newly arrived
// packets visible by advancing each RX ring's tail.
func (p *Port) SyncRx() error {
	return ioctl(p.fd, niocRxsync, nil)
}
