package capture

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uzarakhq/bpsr-uza-modules/types"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name, desc string
		want       types.InterfaceClass
	}{
		{"eth0", "Intel Ethernet Adapter", types.ClassEthernet},
		{"lo", "", types.ClassLoopback},
		{"lo0", "Loopback", types.ClassLoopback},
		{"en0", "Wi-Fi", types.ClassWiFi},
		{"", "Bluetooth Device", types.ClassBluetooth},
		{"tun0", "", types.ClassTunTap},
		{"eth1", "Hyper-V Virtual Ethernet Adapter", types.ClassHyperV},
		{"eth2", "VMware Virtual Ethernet", types.ClassVPN},
		{"weird0", "unrecognized thing", types.ClassOther},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, classify(c.name, c.desc), "classify(%q, %q)", c.name, c.desc)
	}
}

func TestIsVirtual(t *testing.T) {
	assert.True(t, isVirtual("eth2", "VMware Virtual Ethernet"))
	assert.True(t, isVirtual("wg0", ""))
	assert.False(t, isVirtual("eth0", "Intel Ethernet Adapter"))
}

func ifaceWithIPv4(class types.InterfaceClass, ip string, loopback bool) types.NetworkInterface {
	addr := net.ParseIP(ip)
	if loopback {
		addr = net.ParseIP("127.0.0.1")
	}

	return types.NetworkInterface{Class: class, Addrs: []types.AddrMask{{Addr: addr}}}
}

func TestDefaultInterfacePrefersEthernetWithNonLoopbackIPv4(t *testing.T) {
	ifaces := []types.NetworkInterface{
		ifaceWithIPv4(types.ClassLoopback, "127.0.0.1", true),
		ifaceWithIPv4(types.ClassWiFi, "192.168.1.5", false),
		ifaceWithIPv4(types.ClassEthernet, "10.0.0.5", false),
	}

	got, ok := DefaultInterface(ifaces)
	assert.True(t, ok)
	assert.Equal(t, types.ClassEthernet, got.Class)
}

func TestDefaultInterfaceFallsBackToAnyNonLoopback(t *testing.T) {
	ifaces := []types.NetworkInterface{
		ifaceWithIPv4(types.ClassLoopback, "127.0.0.1", true),
		ifaceWithIPv4(types.ClassWiFi, "192.168.1.5", false),
	}

	got, ok := DefaultInterface(ifaces)
	assert.True(t, ok)
	assert.Equal(t, types.ClassWiFi, got.Class)
}

func TestDefaultInterfaceFallsBackToFirstWhenNoneQualify(t *testing.T) {
	ifaces := []types.NetworkInterface{
		ifaceWithIPv4(types.ClassLoopback, "127.0.0.1", true),
	}

	got, ok := DefaultInterface(ifaces)
	assert.True(t, ok)
	assert.Equal(t, types.ClassLoopback, got.Class)
}

func TestDefaultInterfaceEmptyList(t *testing.T) {
	_, ok := DefaultInterface(nil)
	assert.False(t, ok)
}
