// Package capture implements the interface enumerator (C1) and packet
// ingress (C2) components of spec.md §4.1/§4.2.
package capture

import (
	"net"
	"strings"

	"github.com/dreadl0ck/gopacket/pcap"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
	"github.com/uzarakhq/bpsr-uza-modules/types"
)

// ErrBackendUnavailable is returned when the capture backend (libpcap
// or equivalent) could not be reached at all.
var ErrBackendUnavailable = errors.New("capture backend unavailable")

var ifaceLog = logging.New("capture.interfaces", false)

// virtualBrands are case-insensitive substrings that mark an adapter
// as virtual/VPN-branded, spec.md §4.1.
var virtualBrands = []string{
	"vmware", "virtualbox", "vbox", "hyper-v", "hyperv", "docker",
	"veth", "tun", "tap", "wireguard", "wg", "openvpn", "zerotier",
	"tailscale", "nordvpn", "expressvpn", "utun", "vpn", "loopback",
}

// CheckBackend reports whether the capture backend is reachable, for
// the control-API `checkCaptureBackend` operation (spec.md §6).
func CheckBackend() (available bool) {
	_, err := pcap.FindAllDevs()
	return err == nil
}

// ListInterfaces enumerates capture-capable interfaces, classifying
// each by friendly name per spec.md §4.1. On backend failure it falls
// back to the OS view (net.Interfaces) and logs a warning; the returned
// list and error do not indicate that the fallback was used.
func ListInterfaces() ([]types.NetworkInterface, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		ifaceLog.Warn("capture backend unavailable, falling back to OS interface list", zap.Error(err))

		return listFromOS()
	}

	out := make([]types.NetworkInterface, 0, len(devs))

	for _, d := range devs {
		ni := types.NetworkInterface{
			Name:        d.Name,
			Description: d.Description,
		}

		for _, a := range d.Addresses {
			ip4 := a.IP.To4()
			if ip4 == nil {
				continue
			}

			ni.Addrs = append(ni.Addrs, types.AddrMask{Addr: ip4, Mask: a.Netmask})
		}

		ni.Class = classify(ni.Name, ni.Description)
		ni.Virtual = isVirtual(ni.Name, ni.Description) || ni.Class == types.ClassLoopback

		out = append(out, ni)
	}

	return out, nil
}

func listFromOS() ([]types.NetworkInterface, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return nil, errors.Wrap(ErrBackendUnavailable, err.Error())
	}

	out := make([]types.NetworkInterface, 0, len(ifs))

	for _, i := range ifs {
		ni := types.NetworkInterface{
			Name:        i.Name,
			Description: i.Name,
		}

		addrs, _ := i.Addrs()
		for _, a := range addrs {
			var ip net.IP

			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			ip4 := ip.To4()
			if ip4 == nil {
				continue
			}

			ni.Addrs = append(ni.Addrs, types.AddrMask{Addr: ip4})
		}

		ni.Class = classify(ni.Name, ni.Description)
		ni.Virtual = isVirtual(ni.Name, ni.Description) || ni.Class == types.ClassLoopback

		out = append(out, ni)
	}

	return out, nil
}

func classify(name, description string) types.InterfaceClass {
	hay := strings.ToLower(name + " " + description)

	switch {
	case strings.Contains(hay, "loopback") || strings.Contains(hay, "lo0") || strings.TrimSpace(hay) == "lo":
		return types.ClassLoopback
	case strings.Contains(hay, "hyper-v") || strings.Contains(hay, "hyperv"):
		return types.ClassHyperV
	case strings.Contains(hay, "wifi") || strings.Contains(hay, "wi-fi") || strings.Contains(hay, "wlan") || strings.Contains(hay, "wireless"):
		return types.ClassWiFi
	case strings.Contains(hay, "bluetooth"):
		return types.ClassBluetooth
	case strings.Contains(hay, "tun") || strings.Contains(hay, "tap") || strings.Contains(hay, "utun"):
		return types.ClassTunTap
	case isVirtual(name, description):
		return types.ClassVPN
	case strings.Contains(hay, "eth") || strings.Contains(hay, "ethernet") || strings.Contains(hay, "en0") || strings.Contains(hay, "enp"):
		return types.ClassEthernet
	default:
		return types.ClassOther
	}
}

func isVirtual(name, description string) bool {
	hay := strings.ToLower(name + " " + description)
	for _, brand := range virtualBrands {
		if strings.Contains(hay, brand) {
			return true
		}
	}

	return false
}

// DefaultInterface picks the default selection per spec.md §4.1:
// first Ethernet interface with a non-loopback IPv4 address; else the
// first interface with a non-loopback address; else index 0.
func DefaultInterface(ifaces []types.NetworkInterface) (types.NetworkInterface, bool) {
	if len(ifaces) == 0 {
		return types.NetworkInterface{}, false
	}

	for _, ni := range ifaces {
		if ni.Class == types.ClassEthernet && ni.HasNonLoopbackIPv4() {
			return ni, true
		}
	}

	for _, ni := range ifaces {
		if ni.HasNonLoopbackIPv4() {
			return ni, true
		}
	}

	return ifaces[0], true
}
