package netmap

import "encoding/binary"

// Byte layouts below mirror the fixed-size, little-endian structures
// the Linux netmap kernel module exposes, as declared in netmap.h /
// netmap_user.h. Fields are read and written at fixed byte offsets
// with encoding/binary rather than overlaid with an unsafe-cast Go
// struct, since the kernel layout is not Go's natural alignment and
// byte-offset access makes that explicit instead of relying on struct
// padding matching by coincidence. The exception is nmreq, which is a
// Go struct handed to the NIOCREGIF ioctl by pointer; its fields are
// laid out so that none needs padding.

const ifnamsiz = 16

// nmreq is the legacy fixed-size registration request passed to
// NIOCREGIF. Only the fields this binding actually drives are named;
// the kernel ignores reserved fields set to zero.
type nmreq struct {
	name      [ifnamsiz]byte
	version   uint32
	offset    uint32
	memsize   uint32
	txSlots   uint32
	rxSlots   uint32
	txRings   uint16
	rxRings   uint16
	ringID    uint16
	cmd       uint16
	arg1      uint16
	arg2      uint16
	arg3      uint32 // extra buffers requested (in) / granted (out)
	flags     uint32
}

// netmap_if header layout, up to the variable-length ring_ofs array
// that immediately follows it in the mmap'd region.
const (
	nifNameOff        = 0
	nifVersionOff     = nifNameOff + ifnamsiz
	nifFlagsOff       = nifVersionOff + 4
	nifTxRingsOff     = nifFlagsOff + 4
	nifRxRingsOff     = nifTxRingsOff + 4
	nifBufsHeadOff    = nifRxRingsOff + 4
	nifHostTxRingsOff = nifBufsHeadOff + 4
	nifHostRxRingsOff = nifHostTxRingsOff + 4
	nifHeaderSize     = nifHostRxRingsOff + 4 + 20 // + spare1[5]*4
	ringOfsEntrySize  = 8                          // ssize_t
)

// netmap_ring header layout, up to the variable-length slot[] array
// that immediately follows it.
const (
	ringBufOfsOff    = 0
	ringNumSlotsOff  = ringBufOfsOff + 8
	ringBufSizeOff   = ringNumSlotsOff + 4
	ringIDOff        = ringBufSizeOff + 4
	ringDirOff       = ringIDOff + 2
	ringHeadOff      = ringDirOff + 2
	ringCurOff       = ringHeadOff + 4
	ringTailOff      = ringCurOff + 4
	ringFlagsOff     = ringTailOff + 4
	ringTsSecOff     = ringFlagsOff + 4
	ringTsUsecOff    = ringTsSecOff + 8
	ringSemOff       = ringTsUsecOff + 8
	ringHeaderSize   = ringSemOff + 128
)

// netmap_slot layout.
const (
	slotBufIdxOff = 0
	slotLenOff    = slotBufIdxOff + 4
	slotFlagsOff  = slotLenOff + 2
	slotPtrOff    = slotFlagsOff + 2
	slotSize      = slotPtrOff + 8
)

// NS_BUF_CHANGED tells the kernel the slot's buf_idx was swapped and
// its mapping must be refreshed.
const SlotFlagBufChanged uint16 = 0x0001

func le32(b []byte, off int) uint32   { return binary.LittleEndian.Uint32(b[off:]) }
func putLe32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }
func le16(b []byte, off int) uint16   { return binary.LittleEndian.Uint16(b[off:]) }
func putLe16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func le64(b []byte, off int) uint64   { return binary.LittleEndian.Uint64(b[off:]) }
