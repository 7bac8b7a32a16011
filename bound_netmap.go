package nethuns

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/nethuns-go/nethuns/netmap"
	"github.com/nethuns-go/nethuns/rc"
	nring "github.com/nethuns-go/nethuns/ring"
)

// pkthdrBufIdx adapts a Pkthdr's BufIdx field to netmap.BufIdxHolder,
// so Flush can swap a kernel ring slot's buffer index with the
// application slot's own bookkeeping through the same helper netmap
// uses to swap two ring slots.
type pkthdrBufIdx struct{ hdr *Pkthdr }

func (p pkthdrBufIdx) BufIdx() uint32     { return p.hdr.BufIdx }
func (p pkthdrBufIdx) SetBufIdx(v uint32) { p.hdr.BufIdx = v }

// postBindSettle is the PHY-reset wait bind() sleeps for after a
// successful registration, mirroring the original implementation's
// hard-coded 2-second delay. Left as a package variable (rather than
// a bare time.Sleep call) purely so tests can shrink it; the default
// matches the original exactly, per the Open Question it leaves
// unresolved.
var postBindSettle = 2 * time.Second

// BoundSocket owns a live netmap port: its RX/TX nethuns rings, the
// free-buffer pool of extra buffers the kernel granted at bind time,
// and the single arbitrary kernel ring used only to anchor buffer
// address arithmetic.
type BoundSocket struct {
	port     *netmap.Port
	someRing netmap.Ring

	rx *NethunsRing
	tx *NethunsRing

	freeBufs *nring.Queue[uint32]

	firstRxRing, lastRxRing int
	curRxRing                int
	firstTxRing, lastTxRing  int

	filter FilterFunc

	dev     string
	queue   Queue
	ifIndex int

	promiscOn bool
	owner     rc.Owner
}

// bindNetmap implements §4.D's bind protocol against the netmap
// backend.
func bindNetmap(s *BindableSocket, dev string, queue Queue) (*BoundSocket, error) {
	spec := deviceSpec(dev, queue, s.opts.Mode)

	n := s.opts.NumBlocks * s.opts.NumPackets
	var extraBufs uint32
	if s.tx != nil {
		extraBufs += uint32(n)
	}
	if s.rx != nil {
		extraBufs += uint32(n)
	}

	port, err := netmap.Prepare(spec, extraBufs)
	if err != nil {
		if errors.Is(err, netmap.ErrSpecTooLong) {
			return nil, fmt.Errorf("bind %s: %w: %s", DeviceQueueName(dev, queue), ErrIllegalArgument, err)
		}
		return nil, fmt.Errorf("bind %s: %w", DeviceQueueName(dev, queue), wrapFramework(err))
	}

	b := &BoundSocket{
		port:  port,
		rx:    s.rx,
		tx:    s.tx,
		dev:   dev,
		queue: queue,
		owner: s.owner,
	}

	b.firstRxRing, b.lastRxRing = 0, port.RxRingCount()-1
	b.firstTxRing, b.lastTxRing = 0, port.TxRingCount()-1

	if port.RxRingCount() > 0 {
		b.someRing = port.RxRing(0)
	} else if port.TxRingCount() > 0 {
		b.someRing = port.TxRing(0)
	} else {
		port.Close()
		return nil, wrapFramework(ErrFrameworkError)
	}

	granted := port.DrainExtraBufs(b.someRing)
	b.freeBufs = nring.New[uint32](int(extraBufs) + 1)

	i := 0
	if b.tx != nil {
		for id := 0; id < b.tx.Size() && i < len(granted); id++ {
			b.tx.GetSlot(uint64(id)).Pkthdr.BufIdx = granted[i]
			i++
		}
	}
	for ; i < len(granted); i++ {
		b.freeBufs.PushUnchecked(granted[i])
	}

	if s.opts.Promisc {
		if err := setPromisc(dev); err != nil {
			port.Close()
			return nil, wrapFramework(err)
		}
		b.promiscOn = true
	}

	if iface, err := net.InterfaceByName(dev); err == nil {
		b.ifIndex = iface.Index
	}

	time.Sleep(postBindSettle)

	return b, nil
}

// reclaim runs the bounded free-slots scan on the RX ring, pushing
// each reclaimed slot's buffer index back into the free-buffer pool.
func (b *BoundSocket) reclaim() {
	if b.rx == nil {
		return
	}
	b.rx.FreeSlots(func(bufIdx uint32) {
		if !b.freeBufs.IsFull() {
			b.freeBufs.PushUnchecked(bufIdx)
		}
	})
}

// nextNonEmptyRxRing scans the kernel RX rings round-robin starting
// at curRxRing, returning the first non-empty one and advancing
// curRxRing past it for next time.
func (b *BoundSocket) nextNonEmptyRxRing() (netmap.Ring, bool) {
	total := b.lastRxRing - b.firstRxRing + 1
	for k := 0; k < total; k++ {
		i := b.firstRxRing + (b.curRxRing-b.firstRxRing+k)%total
		kring := b.port.RxRing(i)
		if !kring.Empty() {
			b.curRxRing = i + 1
			if b.curRxRing > b.lastRxRing {
				b.curRxRing = b.firstRxRing
			}
			return kring, true
		}
	}
	return netmap.Ring{}, false
}

// Recv implements §4.E.1.
func (b *BoundSocket) Recv() (*RecvHandle, error) {
	if b.rx == nil {
		return nil, ErrNotRx
	}

	h := b.rx.Head()
	slot := b.rx.GetSlot(h)
	if slot.Status.LoadAcquire() != StatusFree {
		return nil, ErrInUse
	}

	if b.freeBufs.IsEmpty() {
		b.reclaim()
		if b.freeBufs.IsEmpty() {
			return nil, ErrNoPacketsAvailable
		}
	}

	kring, ok := b.nextNonEmptyRxRing()
	if !ok {
		if err := b.port.SyncRx(); err != nil {
			return nil, wrapFramework(err)
		}
		kring, ok = b.nextNonEmptyRxRing()
		if !ok {
			return nil, ErrNoPacketsAvailable
		}
	}

	ks := kring.Slot(kring.Cur())
	idx := ks.BufIdx()
	length := ks.Len()
	pkt := kring.Buf(idx)[:length]

	slot.Pkthdr = Pkthdr{
		Timestamp: time.Unix(kring.TsSec(), kring.TsUsec()*1000),
		Caplen:    uint32(length),
		Len:       uint32(length),
		BufIdx:    idx,
	}

	newBuf, _ := b.freeBufs.Pop()
	ks.SetBufIdx(newBuf)
	ks.MarkBufChanged()
	kring.SetCur(kring.Next(kring.Cur()))
	kring.SetHead(kring.Next(kring.Head()))

	if b.filter != nil && !b.filter(&slot.Pkthdr, pkt) {
		b.reclaim()
		return nil, ErrPacketFiltered
	}

	caplen := int(length)
	if caplen > b.rx.PacketSize() {
		caplen = b.rx.PacketSize()
	}
	slot.Pkthdr.Caplen = uint32(caplen)
	slot.Packet = pkt[:caplen]
	slot.Status.StoreRelease(StatusInUse)
	b.rx.AdvanceHead()

	return NewRecvHandle(b.owner, slot), nil
}

// Send implements §4.E.2.
func (b *BoundSocket) Send(buf []byte) error {
	if b.tx == nil {
		return ErrNotTx
	}
	tpos := b.tx.Tail()
	slot := b.tx.GetSlot(tpos)
	if slot.Status.LoadAcquire() != StatusFree {
		return ErrInUse
	}
	dst := b.someRing.Buf(slot.Pkthdr.BufIdx)
	if len(buf) > len(dst) {
		return &InvalidPacketSizeError{Max: len(dst), Got: len(buf)}
	}
	copy(dst, buf)
	if !b.tx.SendSlot(tpos, len(buf)) {
		return ErrInUse
	}
	b.tx.AdvanceTail()
	return nil
}

// SendSlot implements §4.E.3, the zero-copy producer path for
// callers that wrote directly into PacketBufferRef(id).
func (b *BoundSocket) SendSlot(id uint64, length int) error {
	if b.tx == nil {
		return ErrNotTx
	}
	if !b.tx.SendSlot(id, length) {
		return ErrInUse
	}
	return nil
}

// PacketBufferRef exposes the buffer currently backing TX slot id,
// for zero-copy producers that want to write directly into kernel
// memory before calling SendSlot.
func (b *BoundSocket) PacketBufferRef(id uint64) ([]byte, bool) {
	if b.tx == nil || id >= uint64(b.tx.Size()) {
		return nil, false
	}
	slot := b.tx.GetSlot(id)
	return b.someRing.Buf(slot.Pkthdr.BufIdx), true
}

// TxringSize reports the TX ring's logical capacity, if this socket
// has a TX ring.
func (b *BoundSocket) TxringSize() (int, bool) {
	if b.tx == nil {
		return 0, false
	}
	return b.tx.Size(), true
}

// Flush implements §4.E.4: publish consecutive InUse TX slots to the
// kernel until one is not InUse or the kernel ring is full, issue
// NIOCTXSYNC, then sweep completions back to Free.
func (b *BoundSocket) Flush() error {
	if b.tx == nil {
		return ErrNotTx
	}

	prevTail := make(map[int]uint32, b.lastTxRing-b.firstTxRing+1)
	for i := b.firstTxRing; i <= b.lastTxRing; i++ {
		kring := b.port.TxRing(i)
		prevTail[i] = kring.Tail()

		for {
			if kring.Next(kring.Head()) == kring.Tail() {
				break // kernel ring full
			}
			h := b.tx.Head()
			slot := b.tx.GetSlot(h)
			if slot.Status.LoadAcquire() != StatusInUse {
				break
			}

			slot.Status.StoreRelaxed(StatusInFlight)

			ks := kring.Slot(kring.Head())
			netmap.Swap(ks, pkthdrBufIdx{&slot.Pkthdr})
			ks.SetLen(uint16(slot.Len))
			ks.MarkBufChanged()
			ks.SetPtr(h)

			kring.SetCur(kring.Next(kring.Head()))
			kring.SetHead(kring.Next(kring.Head()))
			b.tx.AdvanceHead()
		}
	}

	if err := b.port.SyncTx(); err != nil {
		return wrapFramework(err)
	}

	for i := b.firstTxRing; i <= b.lastTxRing; i++ {
		kring := b.port.TxRing(i)
		tail := kring.Tail()
		for pos := prevTail[i]; pos != tail; {
			pos = kring.Next(pos)
			ks := kring.Slot(pos)
			nethunsID := ks.Ptr()
			slot := b.tx.GetSlot(nethunsID)

			netmap.Swap(ks, pkthdrBufIdx{&slot.Pkthdr})
			ks.MarkBufChanged()

			slot.Status.StoreRelease(StatusFree)
		}
	}

	return nil
}

// SetFilter installs or clears the receive-side predicate.
func (b *BoundSocket) SetFilter(f FilterFunc) { b.filter = f }

// Stats returns a zero-valued Stats, per the netmap backend's
// documented non-behavior.
func (b *BoundSocket) Stats() Stats { return Stats{} }

// Close implements §4.E.6.
func (b *BoundSocket) Close() error {
	if b.promiscOn {
		clearPromisc(b.dev)
		b.promiscOn = false
	}

	var bufs []uint32
	if b.tx != nil {
		for id := 0; id < b.tx.Size(); id++ {
			bufs = append(bufs, b.tx.GetSlot(uint64(id)).Pkthdr.BufIdx)
		}
	}
	for !b.freeBufs.IsEmpty() {
		v, _ := b.freeBufs.Pop()
		bufs = append(bufs, v)
	}
	b.port.RebuildExtraBufs(b.someRing, bufs)

	return b.port.Close()
}

var _ Driver = (*BoundSocket)(nil)
