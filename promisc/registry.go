// Package promisc implements the process-wide, refcounted
// promiscuous-mode registry: a map from device name to a signed
// refcount, with each device's entry created on its first Set and
// access serialized by a single mutex, so that several
// sockets bound to the same device can share promiscuous state
// without flapping the NIC in and out of the mode on every bind/close.
package promisc

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

type entry struct {
	promiscRefcnt int32
}

var (
	mu      sync.Mutex
	entries = map[string]*entry{}
)

// IOControl issues the kernel call that actually flips promiscuous
// mode for a device. Swappable in tests.
type IOControl func(dev string, on bool) error

// ifreqFlags mirrors struct ifreq as used by SIOCGIFFLAGS/SIOCSIFFLAGS:
// an interface name followed by the flags word, with padding to match
// the kernel's struct ifreq size.
type ifreqFlags struct {
	name  [unix.IFNAMSIZ]byte
	flags uint16
	_     [22]byte // pad to sizeof(struct ifreq)
}

func ifctl(fd int, req uintptr, ifr *ifreqFlags) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(ifr)))
	if errno != 0 {
		return errno
	}
	return nil
}

// DefaultIOControl sets IFF_PROMISC via an AF_INET SOCK_DGRAM control
// socket and SIOCSIFFLAGS, the standard Linux incantation for
// toggling an interface flag without a netlink dependency.
func DefaultIOControl(dev string, on bool) error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)

	var ifr ifreqFlags
	copy(ifr.name[:], dev)
	if err := ifctl(fd, unix.SIOCGIFFLAGS, &ifr); err != nil {
		return err
	}
	if on {
		ifr.flags |= unix.IFF_PROMISC
	} else {
		ifr.flags &^= unix.IFF_PROMISC
	}
	return ifctl(fd, unix.SIOCSIFFLAGS, &ifr)
}

// Set increments dev's promiscuous refcount, issuing ioctl only on
// the 0->1 transition.
func Set(dev string, ioctl IOControl) error {
	mu.Lock()
	defer mu.Unlock()

	e, ok := entries[dev]
	if !ok {
		e = &entry{}
		entries[dev] = e
	}
	e.promiscRefcnt++
	if e.promiscRefcnt == 1 {
		if err := ioctl(dev, true); err != nil {
			e.promiscRefcnt--
			return err
		}
	}
	return nil
}

// Clear decrements dev's promiscuous refcount, issuing ioctl only on
// the 1->0 transition. Clearing a device with a zero or absent
// refcount is a no-op, matching a registry that is never torn down
// and may outlive any individual caller's bookkeeping mistake.
func Clear(dev string, ioctl IOControl) error {
	mu.Lock()
	defer mu.Unlock()

	e, ok := entries[dev]
	if !ok || e.promiscRefcnt <= 0 {
		return nil
	}
	e.promiscRefcnt--
	if e.promiscRefcnt == 0 {
		return ioctl(dev, false)
	}
	return nil
}

// Refcount returns the current refcount for dev, 0 if never touched.
// Exposed for tests that verify P8 (transition-counted IO-controls).
func Refcount(dev string) int32 {
	mu.Lock()
	defer mu.Unlock()
	e, ok := entries[dev]
	if !ok {
		return 0
	}
	return e.promiscRefcnt
}
