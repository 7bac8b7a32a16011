package nethuns

import "net"

// InterfaceInfo describes one bindable device, for callers choosing a
// target before calling OpenBindable/Bind without hard-coding a name.
type InterfaceInfo struct {
	Name         string
	Index        int
	HardwareAddr net.HardwareAddr
	LinkUp       bool
}

// ListInterfaces enumerates the host's network interfaces, the
// netmap-backend equivalent of the hardware driver's device-discovery
// call: instead of querying a proprietary adapter for its port list,
// it asks the kernel directly since any interface name netmap accepts
// is just whatever net.Interfaces already knows about.
func ListInterfaces() ([]InterfaceInfo, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, wrapFramework(err)
	}

	out := make([]InterfaceInfo, 0, len(ifaces))
	for _, ifc := range ifaces {
		out = append(out, InterfaceInfo{
			Name:         ifc.Name,
			Index:        ifc.Index,
			HardwareAddr: ifc.HardwareAddr,
			LinkUp:       ifc.Flags&net.FlagUp != 0,
		})
	}
	return out, nil
}

// FindInterfaceByName looks up a single interface by name, returning
// (nil, nil) if no such interface exists and (nil, err) only on a
// genuine enumeration failure.
func FindInterfaceByName(name string) (*InterfaceInfo, error) {
	all, err := ListInterfaces()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}
	return nil, nil
}

// FindInterfaceByHardwareAddr looks up a single interface by MAC
// address, returning (nil, nil) if none matches.
func FindInterfaceByHardwareAddr(addr net.HardwareAddr) (*InterfaceInfo, error) {
	all, err := ListInterfaces()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if string(all[i].HardwareAddr) == string(addr) {
			return &all[i], nil
		}
	}
	return nil, nil
}
