// Package decode extracts Ethernet/IPv4/UDP header fields from raw link-layer
// frames at fixed offsets.
//
// The layout assumed is an untagged Ethernet II header followed by a 20-byte
// IPv4 header without options. VLAN-tagged frames and IPv4 headers carrying
// options are not detected: their fields are read from the wrong offsets.
package decode

import (
	"errors"
	"net"

	"github.com/google/gopacket/layers"

	"udpwatch/internal/models"
)

// Fixed offsets into an untagged Ethernet II + IPv4 (IHL=5) + UDP frame.
const (
	offEthSrc     = 6
	offIPTotalLen = 16
	offIPSrc      = 26
	offIPDst      = 30
	offUDPSrcPort = 34
	offUDPDstPort = 36
	offUDPLen     = 38
	offPayload    = 42

	// MinFrameLen is the size of the Ethernet, IPv4 and UDP headers together.
	MinFrameLen = offPayload
	// UDPHeaderLen is the fixed size of the UDP header counted in the length field.
	UDPHeaderLen = 8
)

var (
	// ErrShortFrame is returned for frames under MinFrameLen bytes.
	ErrShortFrame = errors.New("frame shorter than ethernet+ipv4+udp headers")
	// ErrPortMismatch is returned when the UDP destination port is not the decoder's port.
	ErrPortMismatch = errors.New("udp destination port does not match")
	// ErrBadUDPLength is returned when the UDP length field is below UDPHeaderLen.
	ErrBadUDPLength = errors.New("udp length smaller than udp header")
	// ErrOutOfBounds is returned when a header read falls past the captured bytes.
	ErrOutOfBounds = errors.New("header field outside captured bytes")
)

// Decoder accepts UDP frames addressed to Port.
type Decoder struct {
	Port uint16
}

// NewDecoder returns a Decoder for the given destination port.
func NewDecoder(port uint16) Decoder {
	return Decoder{Port: port}
}

// Decode parses frame and returns its header fields and payload. A non-nil
// error means the frame is not of interest; the error says why.
//
// The returned frame aliases frame.
func (d Decoder) Decode(frame []byte) (models.UDPFrame, error) {
	v := View(frame)
	if v.Len() < MinFrameLen {
		return models.UDPFrame{}, ErrShortFrame
	}

	dstPort, ok := v.Uint16(offUDPDstPort)
	if !ok {
		return models.UDPFrame{}, ErrOutOfBounds
	}
	if dstPort != d.Port {
		return models.UDPFrame{}, ErrPortMismatch
	}

	udpLen, ok := v.Uint16(offUDPLen)
	if !ok {
		return models.UDPFrame{}, ErrOutOfBounds
	}
	if udpLen < UDPHeaderLen {
		return models.UDPFrame{}, ErrBadUDPLength
	}

	out := models.UDPFrame{
		DstPort: layers.UDPPort(dstPort),
		UDPLen:  udpLen,
	}
	if out.IPTotalLen, ok = v.Uint16(offIPTotalLen); !ok {
		return models.UDPFrame{}, ErrOutOfBounds
	}
	srcPort, ok := v.Uint16(offUDPSrcPort)
	if !ok {
		return models.UDPFrame{}, ErrOutOfBounds
	}
	out.SrcPort = layers.UDPPort(srcPort)

	mac, ok := v.Bytes(offEthSrc, 6)
	if !ok {
		return models.UDPFrame{}, ErrOutOfBounds
	}
	out.EthSrc = net.HardwareAddr(mac)

	src, ok := v.Bytes(offIPSrc, net.IPv4len)
	if !ok {
		return models.UDPFrame{}, ErrOutOfBounds
	}
	dst, ok := v.Bytes(offIPDst, net.IPv4len)
	if !ok {
		return models.UDPFrame{}, ErrOutOfBounds
	}
	out.SrcIP, out.DstIP = net.IP(src), net.IP(dst)

	declared := int(udpLen) - UDPHeaderLen
	payload, ok := v.Tail(offPayload, declared)
	if !ok {
		return models.UDPFrame{}, ErrOutOfBounds
	}
	out.Payload = payload
	out.Truncated = len(payload) < declared

	return out, nil
}
