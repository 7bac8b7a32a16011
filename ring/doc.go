// Package ring implements a bounded, wrap-free circular queue over a
// power-of-two backing array.
//
// It is the primitive used by the nethuns ring (slot storage) and by
// the netmap free-buffer ring: both need push/pop at the head and tail
// without an integer division on the hot path.
package ring
