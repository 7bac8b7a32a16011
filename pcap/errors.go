package pcap

import (
	"errors"
	"fmt"
)

var (
	// ErrMagicNotSupported is returned by Open when a capture file's
	// magic number is none of the three supported tcpdump variants.
	ErrMagicNotSupported = errors.New("pcap: unsupported file magic")

	// ErrNotSupported is returned by the external-reader backend for
	// operations it does not implement: write and store are
	// builtin-only.
	ErrNotSupported = errors.New("pcap: operation not supported by this reader")

	// ErrInUse mirrors the ring-level backpressure signal the nethuns
	// package reports when the next slot isn't Free yet.
	ErrInUse = errors.New("pcap: next slot still in use")

	// ErrEOF is returned by Read once the file is exhausted.
	ErrEOF = errors.New("pcap: end of file")
)

// UnsupportedMagicError reports the rejected magic number alongside
// ErrMagicNotSupported, for callers that want to log or display it.
type UnsupportedMagicError struct {
	Magic uint32
}

func (e *UnsupportedMagicError) Error() string {
	return fmt.Sprintf("pcap: unsupported file magic 0x%08x", e.Magic)
}

func (e *UnsupportedMagicError) Unwrap() error { return ErrMagicNotSupported }
