// Package nethuns provides zero-copy, netmap-backed packet I/O:
// opening a device, sending and receiving frames through mmap'd
// kernel rings, and reading/writing pcap capture files in the same
// ring-and-handle shape.
//
// netmap is a Linux kernel feature (NIOCREGIF/NIOCTXSYNC/NIOCRXSYNC
// ioctls, a /dev/netmap character device); this module targets Linux
// only, the same way its teacher codebase targeted only hosts with a
// Myricom/CSPI SNF adapter and shared library installed — there is no
// portable fallback backend, so no build tag gates the platform: the
// module simply assumes it.
package nethuns
