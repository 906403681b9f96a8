package models

import (
	"net"

	"github.com/google/gopacket/layers"
)

// UDPFrame holds the header fields and payload extracted from a raw Ethernet/IPv4/UDP frame.
//
// The byte slices alias the buffer the frame was decoded from and are only valid
// until the capture source reuses it. Use Clone to keep a frame around.
type UDPFrame struct {
	EthSrc     net.HardwareAddr
	SrcIP      net.IP
	DstIP      net.IP
	IPTotalLen uint16
	SrcPort    layers.UDPPort
	DstPort    layers.UDPPort
	UDPLen     uint16
	Payload    []byte

	// Truncated is set when the UDP length field claims more payload than was captured.
	Truncated bool
}

// PayloadLen returns the number of payload bytes actually present in the frame.
func (f UDPFrame) PayloadLen() int {
	return len(f.Payload)
}

// Clone returns a copy of f that does not share memory with the capture buffer.
func (f UDPFrame) Clone() UDPFrame {
	c := f
	c.EthSrc = append(net.HardwareAddr(nil), f.EthSrc...)
	c.SrcIP = append(net.IP(nil), f.SrcIP...)
	c.DstIP = append(net.IP(nil), f.DstIP...)
	c.Payload = append([]byte(nil), f.Payload...)
	return c
}
