package types

import "net"

// InterfaceClass is the friendly classification of a NetworkInterface
// (spec.md §3, §4.1).
type InterfaceClass int

const (
	ClassOther InterfaceClass = iota
	ClassEthernet
	ClassWiFi
	ClassBluetooth
	ClassLoopback
	ClassHyperV
	ClassTunTap
	ClassVPN
)

func (c InterfaceClass) String() string {
	switch c {
	case ClassEthernet:
		return "Ethernet"
	case ClassWiFi:
		return "WiFi"
	case ClassBluetooth:
		return "Bluetooth"
	case ClassLoopback:
		return "Loopback"
	case ClassHyperV:
		return "Hyper-V"
	case ClassTunTap:
		return "TUN-TAP"
	case ClassVPN:
		return "VPN"
	default:
		return "Other"
	}
}

// AddrMask is an IPv4 address paired with its netmask.
type AddrMask struct {
	Addr net.IP
	Mask net.IPMask
}

// NetworkInterface describes one capture-capable interface (spec.md §3).
type NetworkInterface struct {
	Name        string
	Description string
	Class       InterfaceClass
	Addrs       []AddrMask
	Virtual     bool
}

// HasNonLoopbackIPv4 reports whether the interface carries at least
// one non-loopback IPv4 address.
func (n *NetworkInterface) HasNonLoopbackIPv4() bool {
	for _, a := range n.Addrs {
		if ip4 := a.Addr.To4(); ip4 != nil && !ip4.IsLoopback() {
			return true
		}
	}

	return false
}

// Transport identifies the transport protocol of a FlowKey. Only TCP
// is modeled, per spec.md §3.
type Transport int

const (
	TransportTCP Transport = iota
)

// FlowKey is the immutable 5-tuple identifying one direction of a TCP
// connection (spec.md §3). Equality is structural.
type FlowKey struct {
	SrcIP     [4]byte
	SrcPort   uint16
	DstIP     [4]byte
	DstPort   uint16
	Transport Transport
}

// Reverse returns the opposite direction of the same connection.
func (f FlowKey) Reverse() FlowKey {
	return FlowKey{
		SrcIP:     f.DstIP,
		SrcPort:   f.DstPort,
		DstIP:     f.SrcIP,
		DstPort:   f.SrcPort,
		Transport: f.Transport,
	}
}

func (f FlowKey) String() string {
	return net.IP(f.SrcIP[:]).String() + ":" + itoa(uint32(f.SrcPort)) +
		" -> " + net.IP(f.DstIP[:]).String() + ":" + itoa(uint32(f.DstPort))
}
