package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"udpwatch/internal/capture"
)

// Link is a capture source that can also transmit.
type Link interface {
	capture.Source
	capture.Injector
}

// InterfaceAddrs returns the hardware address and first IPv4 address of an interface.
func InterfaceAddrs(name string) (net.HardwareAddr, net.IP, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get interface %s: %w", name, err)
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get interface addresses: %w", err)
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok {
			if ip4 := ipnet.IP.To4(); ip4 != nil {
				return iface.HardwareAddr, ip4, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("no IPv4 address on interface %s", name)
}

// ResolveMAC broadcasts an ARP request for target on link and waits for
// the reply, re-sending every second until ctx is done.
func ResolveMAC(ctx context.Context, link Link, srcMAC net.HardwareAddr, srcIP, target net.IP) (net.HardwareAddr, error) {
	req, err := arpRequest(srcMAC, srcIP, target)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize ARP request: %w", err)
	}

	var lastSent time.Time
	for {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("timeout waiting for ARP reply from %s: %w", target, ctx.Err())
		}
		if time.Since(lastSent) >= time.Second {
			if err := link.WritePacketData(req); err != nil {
				return nil, fmt.Errorf("failed to write ARP request: %w", err)
			}
			lastSent = time.Now()
		}

		data, _, err := link.ReadPacketData()
		switch {
		case err == nil:
		case errors.Is(err, capture.ErrTimeout):
			continue
		default:
			return nil, fmt.Errorf("failed to read ARP reply: %w", err)
		}

		if mac, ok := arpReplyFrom(data, target); ok {
			return mac, nil
		}
	}
}

func arpRequest(srcMAC net.HardwareAddr, srcIP, target net.IP) ([]byte, error) {
	eth := layers.Ethernet{
		SrcMAC:       srcMAC,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(srcMAC),
		SourceProtAddress: []byte(srcIP.To4()),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(target.To4()),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, &eth, &arp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func arpReplyFrom(data []byte, target net.IP) (net.HardwareAddr, bool) {
	pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.NoCopy)
	arp, ok := pkt.Layer(layers.LayerTypeARP).(*layers.ARP)
	if !ok || arp.Operation != layers.ARPReply {
		return nil, false
	}
	if !net.IP(arp.SourceProtAddress).Equal(target) {
		return nil, false
	}
	return append(net.HardwareAddr(nil), arp.SourceHwAddress...), true
}
