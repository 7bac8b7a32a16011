package nethuns

// Direction records the capture direction the caller asked for. It is
// stored in SocketOptions only; which RX/TX rings a socket allocates
// is decided by SocketMode.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

// CaptureMode mirrors the underlying framework's capture mode. The
// netmap driver does not read it; every value is accepted and kept in
// SocketOptions for parity with the option surface other backends
// would need.
type CaptureMode int

const (
	CaptureDefault CaptureMode = iota
	CaptureSkbMode
	CaptureDrvMode
	CaptureZeroCopy
)

// SocketMode selects which rings a BindableSocket allocates.
type SocketMode int

const (
	ModeRxTx SocketMode = iota
	ModeRxOnly
	ModeTxOnly
)

// Queue selects a specific hardware queue, or lets the driver pick.
type Queue struct {
	any   bool
	index uint32
}

// AnyQueue lets the driver choose a queue.
func AnyQueue() Queue { return Queue{any: true} }

// SomeQueue pins bind to a specific hardware queue index.
func SomeQueue(index uint32) Queue { return Queue{index: index} }

// IsAny reports whether this Queue selector is AnyQueue.
func (q Queue) IsAny() bool { return q.any }

// Index returns the pinned queue index; only meaningful if !IsAny().
func (q Queue) Index() uint32 { return q.index }

// SocketOptions is the full configuration surface for OpenBindable.
// Every numeric field must be non-negative, and NumBlocks*NumPackets
// must not overflow a machine word; validated in OpenBindable.
type SocketOptions struct {
	NumBlocks   int
	NumPackets  int
	PacketSize  int
	TimeoutMs   int
	Dir         Direction
	Capture     CaptureMode
	Mode        SocketMode
	Promisc     bool
	RxHash      bool
	TxQdiscBypass bool

	// XDP-only fields, accepted for option-surface parity with
	// non-netmap backends; the netmap driver ignores them.
	XDPProg     string
	XDPProgSec  string
	XSKMapName  string
	ReuseMaps   bool
	PinDir      string
}

// Option configures a SocketOptions value, following the teacher's
// functional-options constructor pattern (see HandlerOption in the
// snf package this module started from).
type Option func(*SocketOptions)

// NewSocketOptions builds a SocketOptions with the given overrides
// applied over sane zero-value-adjacent defaults (NumBlocks=1,
// NumPackets=1024, PacketSize=2048, Mode=RxTx, Dir=InOut).
func NewSocketOptions(opts ...Option) SocketOptions {
	o := SocketOptions{
		NumBlocks:  1,
		NumPackets: 1024,
		PacketSize: 2048,
		Dir:        DirInOut,
		Mode:       ModeRxTx,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithBlocks(numBlocks, numPackets int) Option {
	return func(o *SocketOptions) {
		o.NumBlocks = numBlocks
		o.NumPackets = numPackets
	}
}

func WithPacketSize(size int) Option {
	return func(o *SocketOptions) { o.PacketSize = size }
}

func WithTimeout(ms int) Option {
	return func(o *SocketOptions) { o.TimeoutMs = ms }
}

func WithDirection(d Direction) Option {
	return func(o *SocketOptions) { o.Dir = d }
}

func WithCapture(c CaptureMode) Option {
	return func(o *SocketOptions) { o.Capture = c }
}

func WithMode(m SocketMode) Option {
	return func(o *SocketOptions) { o.Mode = m }
}

func WithPromisc(on bool) Option {
	return func(o *SocketOptions) { o.Promisc = on }
}

func WithRxHash(on bool) Option {
	return func(o *SocketOptions) { o.RxHash = on }
}

func WithTxQdiscBypass(on bool) Option {
	return func(o *SocketOptions) { o.TxQdiscBypass = on }
}

// validate checks the non-negativity and overflow invariants spec.md
// §3 requires of SocketOptions before a BindableSocket is built.
func (o SocketOptions) validate() error {
	if o.NumBlocks < 0 || o.NumPackets < 0 || o.PacketSize < 0 || o.TimeoutMs < 0 {
		return ErrInvalidOptions
	}
	if o.Mode != ModeRxTx && o.Mode != ModeRxOnly && o.Mode != ModeTxOnly {
		return ErrInvalidOptions
	}
	n := o.NumBlocks * o.NumPackets
	if o.NumBlocks != 0 && n/o.NumBlocks != o.NumPackets {
		return ErrInvalidOptions
	}
	return nil
}

// wantsRx reports whether Mode requires an RX ring.
func (o SocketOptions) wantsRx() bool {
	return o.Mode == ModeRxTx || o.Mode == ModeRxOnly
}

// wantsTx reports whether Mode requires a TX ring.
func (o SocketOptions) wantsTx() bool {
	return o.Mode == ModeRxTx || o.Mode == ModeTxOnly
}
