package qemu

import "net"

// ResolveBridge picks the host interface to bridge the VM onto: the
// first interface that is up, not loopback, and carries a hardware
// address. When discovery fails the configured fallback name is used.
func ResolveBridge(fallback string) string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return fallback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.Name
	}
	return fallback
}
