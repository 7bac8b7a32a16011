package netmap

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl direction/size encoding, following the standard Linux _IOC
// macros (asm-generic/ioctl.h). netmap's NIOCREGIF/NIOCTXSYNC/
// NIOCRXSYNC are all defined in terms of these.
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14
	iocDirBits  = 2

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return (dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNrShift) | (size << iocSizeShift)
}

func io(typ, nr uintptr) uintptr {
	return ioc(iocNone, typ, nr, 0)
}

func iowr(typ, nr, size uintptr) uintptr {
	return ioc(iocRead|iocWrite, typ, nr, size)
}

// NIOCREGIF registers (binds) a netmap port and grants extra buffers.
// NIOCTXSYNC/NIOCRXSYNC ask the kernel to synchronize a ring with the
// hardware; the ring number is selected beforehand via nr_ringid.
var (
	niocRegif   = iowr('i', 146, unsafe.Sizeof(nmreq{}))
	niocTxsync  = io('i', 148)
	niocRxsync  = io('i', 149)
)

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
