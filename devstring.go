package nethuns

import (
	"strconv"
	"strings"
)

// deviceSpec builds the netmap port string bind() passes to
// netmap.Prepare, per the scheme: {prefix}{dev}{sep}{queue}{flags}.
// prefix is "netmap:" for physical devices, empty for VALE ports
// (which are named by the "vale..." convention and never take the
// netmap: prefix); sep is "-" for physical devices and ":" for VALE;
// flags narrows the registration to one direction when the socket
// only wants RX or only TX.
func deviceSpec(dev string, queue Queue, mode SocketMode) string {
	var b strings.Builder

	isVale := strings.HasPrefix(dev, "vale")
	if !isVale {
		b.WriteString("netmap:")
	}
	b.WriteString(dev)

	if !queue.IsAny() {
		if isVale {
			b.WriteString(":")
		} else {
			b.WriteString("-")
		}
		b.WriteString(strconv.FormatUint(uint64(queue.Index()), 10))
	}

	switch mode {
	case ModeRxOnly:
		b.WriteString("/R")
	case ModeTxOnly:
		b.WriteString("/T")
	}

	return b.String()
}

// DeviceQueueName renders a human-readable "dev:queue" identity for
// diagnostics and logging, distinct from deviceSpec's netmap-specific
// bind string: "unspec" with no device, the bare device name for
// AnyQueue, or "dev:index" for a pinned queue.
func DeviceQueueName(dev string, queue Queue) string {
	if dev == "" {
		return "unspec"
	}
	if queue.IsAny() {
		return dev
	}
	return dev + ":" + strconv.FormatUint(uint64(queue.Index()), 10)
}
