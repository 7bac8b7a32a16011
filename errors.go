package nethuns

import (
	"errors"
	"fmt"
)

// Sentinel error kinds returned by public operations. Callers compare
// with errors.Is; FrameworkError-wrapping operations also carry the
// underlying syscall error via %w, so errors.Is(err, unix.EBUSY) (for
// example) keeps working through the wrap.
var (
	ErrInvalidOptions     = errors.New("nethuns: invalid socket options")
	ErrIllegalArgument    = errors.New("nethuns: illegal argument")
	ErrFrameworkError     = errors.New("nethuns: framework error")
	ErrNotRx              = errors.New("nethuns: socket not opened for receive")
	ErrNotTx              = errors.New("nethuns: socket not opened for transmit")
	ErrInUse              = errors.New("nethuns: slot in use")
	ErrNoPacketsAvailable = errors.New("nethuns: no packets available")
	ErrPacketFiltered     = errors.New("nethuns: packet rejected by filter")

	// ErrMixedPcapMode is returned by a pcap.Socket operation that
	// doesn't match the mode the file was opened in: Write/Store on a
	// read-opened socket, or Read/Rewind on a write-opened one.
	ErrMixedPcapMode = errors.New("nethuns: pcap socket is not open in this mode")
)

// InvalidPacketSizeError reports that a caller tried to send a frame
// larger than the destination buffer. It wraps a sentinel so
// errors.Is(err, ErrInvalidPacketSize) still matches.
type InvalidPacketSizeError struct {
	Max int
	Got int
}

var ErrInvalidPacketSize = errors.New("nethuns: invalid packet size")

func (e *InvalidPacketSizeError) Error() string {
	return fmt.Sprintf("nethuns: invalid packet size: got %d, max %d", e.Got, e.Max)
}

func (e *InvalidPacketSizeError) Unwrap() error { return ErrInvalidPacketSize }

// wrapFramework wraps a lower-level (typically unix.Errno) error as a
// FrameworkError, the same way the teacher's retErr turns a raw cgo
// return code into a syscall.Errno.
func wrapFramework(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrFrameworkError, err)
}
