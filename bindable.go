package nethuns

import "github.com/nethuns-go/nethuns/rc"

// BindableSocket is validated, unbound configuration: the rings it
// will eventually drive are allocated, but no OS resource has been
// touched. Call Bind to consume it into a BoundSocket.
type BindableSocket struct {
	opts  SocketOptions
	rx    *NethunsRing
	tx    *NethunsRing
	owner rc.Owner
}

// OpenBindable validates opts and allocates the RX and/or TX rings it
// names, per §4.D. It does not acquire any OS resource.
func OpenBindable(opts SocketOptions) (*BindableSocket, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !opts.wantsRx() && !opts.wantsTx() {
		return nil, ErrInvalidOptions
	}

	n := opts.NumBlocks * opts.NumPackets
	s := &BindableSocket{opts: opts, owner: rc.NewOwner()}
	if opts.wantsRx() {
		s.rx = newNethunsRing(n, opts.PacketSize)
	}
	if opts.wantsTx() {
		s.tx = newNethunsRing(n, opts.PacketSize)
	}
	return s, nil
}

// Bind consumes the configuration against a live device, producing a
// BoundSocket. Unlike the reference implementation (which must hand
// the unbound socket back out of a consuming Result on failure since
// its bind() takes self by value), a Go method call never consumes
// its receiver: s remains fully valid and retryable after an error is
// returned, with no separate "give it back" step needed.
func (s *BindableSocket) Bind(dev string, queue Queue) (*BoundSocket, error) {
	return bindNetmap(s, dev, queue)
}

// Options returns the configuration this socket was opened with.
func (s *BindableSocket) Options() SocketOptions { return s.opts }
