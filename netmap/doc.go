// Package netmap is a pure-Go binding to the Linux netmap kernel ABI:
// opening a port, mmap'ing its shared memory region, and walking the
// netmap_if/netmap_ring/netmap_slot structures that live inside it.
//
// There is no cgo here and no dependency on libnetmap; the ABI is
// read directly out of the mmap'd region with golang.org/x/sys/unix
// for the ioctl/mmap syscalls and encoding/binary for the fixed
// little-endian struct layout netmap defines. This mirrors how the
// rest of the retrieved example pack touches kernel ring memory
// directly (AF_XDP, SocketCAN) rather than through a C wrapper.
package netmap
