package framegen

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_RoundTripsThroughGopacket(t *testing.T) {
	f := Defaults()
	f.DstPort = 32775
	f.Payload = []byte("hello fpga")

	raw, err := Build(f)
	require.NoError(t, err)
	assert.Len(t, raw, 60, "short frames are padded to the ethernet minimum")

	pkt := gopacket.NewPacket(raw, layers.LayerTypeEthernet, gopacket.Default)
	require.Nil(t, pkt.ErrorLayer())

	ip, ok := pkt.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	require.True(t, ok)
	assert.Equal(t, uint16(38), ip.Length)
	assert.True(t, ip.SrcIP.Equal(f.SrcIP))
	assert.True(t, ip.DstIP.Equal(f.DstIP))

	udp, ok := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	require.True(t, ok)
	assert.Equal(t, layers.UDPPort(32775), udp.DstPort)
	assert.Equal(t, uint16(18), udp.Length)
	assert.Equal(t, []byte("hello fpga"), udp.Payload)
}

func TestBuild_LargePayloadIsNotPadded(t *testing.T) {
	f := Defaults()
	f.Payload = make([]byte, 100)

	raw, err := Build(f)
	require.NoError(t, err)
	assert.Len(t, raw, 14+20+8+100)
}

func TestBuild_RejectsIPv6(t *testing.T) {
	f := Defaults()
	f.SrcIP = net.ParseIP("2001:db8::1")

	_, err := Build(f)
	assert.Error(t, err)
}
