// Package framegen serializes Ethernet/IPv4/UDP frames with gopacket.
package framegen

import (
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// UDPFrame describes a single frame to build.
type UDPFrame struct {
	SrcMAC  net.HardwareAddr
	DstMAC  net.HardwareAddr
	SrcIP   net.IP
	DstIP   net.IP
	SrcPort uint16
	DstPort uint16
	TTL     uint8
	Payload []byte
}

// Defaults returns the addressing used by the FPGA receive testbench.
func Defaults() UDPFrame {
	return UDPFrame{
		SrcMAC:  net.HardwareAddr{0xac, 0x70, 0x12, 0x56, 0x41, 0x23},
		DstMAC:  net.HardwareAddr{0xac, 0x14, 0x45, 0xff, 0xaf, 0xc4},
		SrcIP:   net.IPv4(192, 168, 1, 149).To4(),
		DstIP:   net.IPv4(192, 168, 1, 144).To4(),
		SrcPort: 0x4554,
		DstPort: 0x8080,
		TTL:     64,
	}
}

// Build serializes f with computed lengths and checksums. Frames shorter than
// the Ethernet minimum are zero padded to 60 bytes.
func Build(f UDPFrame) ([]byte, error) {
	src, dst := f.SrcIP.To4(), f.DstIP.To4()
	if src == nil || dst == nil {
		return nil, fmt.Errorf("framegen: ipv4 addresses required (src=%v dst=%v)", f.SrcIP, f.DstIP)
	}
	ttl := f.TTL
	if ttl == 0 {
		ttl = 64
	}

	eth := layers.Ethernet{
		SrcMAC:       f.SrcMAC,
		DstMAC:       f.DstMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      ttl,
		Flags:    layers.IPv4DontFragment,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    src,
		DstIP:    dst,
	}
	udp := layers.UDP{
		SrcPort: layers.UDPPort(f.SrcPort),
		DstPort: layers.UDPPort(f.DstPort),
	}
	if err := udp.SetNetworkLayerForChecksum(&ip); err != nil {
		return nil, fmt.Errorf("framegen: %w", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, &eth, &ip, &udp, gopacket.Payload(f.Payload)); err != nil {
		return nil, fmt.Errorf("framegen: serialize: %w", err)
	}
	return buf.Bytes(), nil
}
