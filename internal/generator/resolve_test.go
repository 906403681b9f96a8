package generator

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udpwatch/internal/capture"
)

// scriptedLink answers reads from a fixed list and records writes.
type scriptedLink struct {
	reads  [][]byte
	writes [][]byte
}

func (l *scriptedLink) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	if len(l.reads) == 0 {
		return nil, gopacket.CaptureInfo{}, capture.ErrTimeout
	}
	data := l.reads[0]
	l.reads = l.reads[1:]
	return data, gopacket.CaptureInfo{}, nil
}

func (l *scriptedLink) WritePacketData(data []byte) error {
	l.writes = append(l.writes, append([]byte(nil), data...))
	return nil
}

func (l *scriptedLink) Close() {}

func arpReply(t *testing.T, mac net.HardwareAddr, ip net.IP) []byte {
	t.Helper()
	eth := layers.Ethernet{SrcMAC: mac, DstMAC: net.HardwareAddr{2, 0, 0, 0, 0, 1}, EthernetType: layers.EthernetTypeARP}
	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPReply,
		SourceHwAddress:   []byte(mac),
		SourceProtAddress: []byte(ip.To4()),
		DstHwAddress:      []byte{2, 0, 0, 0, 0, 1},
		DstProtAddress:    []byte{192, 168, 1, 10},
	}
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true}, &eth, &arp))
	return buf.Bytes()
}

func TestResolveMAC(t *testing.T) {
	target := net.IPv4(192, 168, 1, 123)
	want := net.HardwareAddr{0xac, 0x14, 0x45, 0xff, 0xaf, 0xc4}
	link := &scriptedLink{reads: [][]byte{
		arpReply(t, net.HardwareAddr{1, 1, 1, 1, 1, 1}, net.IPv4(192, 168, 1, 99)),
		make([]byte, 60),
		arpReply(t, want, target),
	}}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	mac, err := ResolveMAC(ctx, link, net.HardwareAddr{2, 0, 0, 0, 0, 1}, net.IPv4(192, 168, 1, 10), target)
	require.NoError(t, err)
	assert.Equal(t, want, mac)

	require.Len(t, link.writes, 1)
	pkt := gopacket.NewPacket(link.writes[0], layers.LayerTypeEthernet, gopacket.Default)
	req, ok := pkt.Layer(layers.LayerTypeARP).(*layers.ARP)
	require.True(t, ok)
	assert.Equal(t, uint16(layers.ARPRequest), req.Operation)
	assert.Equal(t, []byte(target.To4()), req.DstProtAddress)
}

func TestResolveMAC_Timeout(t *testing.T) {
	link := &scriptedLink{}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ResolveMAC(ctx, link, net.HardwareAddr{2, 0, 0, 0, 0, 1}, net.IPv4(10, 0, 0, 1), net.IPv4(10, 0, 0, 2))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
