package nethuns

import "github.com/nethuns-go/nethuns/promisc"

// setPromisc and clearPromisc route bind/close's promiscuous-mode
// lifecycle through the process-wide registry in the promisc package,
// using its default ioctl-based implementation.
func setPromisc(dev string) error {
	return promisc.Set(dev, promisc.DefaultIOControl)
}

func clearPromisc(dev string) error {
	return promisc.Clear(dev, promisc.DefaultIOControl)
}
