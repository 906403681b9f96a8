// Package capture reads raw link-layer frames from a network interface or a
// pcap file and drives them through the decoder and throughput counters.
package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/gopacket"
)

// ErrTimeout is returned by a Source when no frame arrived within its read timeout.
var ErrTimeout = errors.New("capture: read timeout")

// Source delivers one captured frame per call. The returned slice may be
// reused by the next call.
type Source interface {
	gopacket.PacketDataSource
	Close()
}

// Injector transmits raw frames on the capture interface.
type Injector interface {
	WritePacketData(data []byte) error
}

// Backend selects the live capture implementation.
type Backend string

const (
	// BackendAFPacket reads from a Linux TPACKET ring.
	BackendAFPacket Backend = "afpacket"
	// BackendPcap reads through libpcap and can install a BPF filter.
	BackendPcap Backend = "pcap"
)

// Config controls how a live capture is opened.
type Config struct {
	Interface string
	Backend   Backend
	// SnapLen is the maximum number of bytes libpcap keeps per frame. Defaults to 65536.
	SnapLen int
	// Promisc puts the interface in promiscuous mode. Defaults to true if unset.
	Promisc *bool
	// ReadTimeout bounds each blocking read so idle windows still close.
	// Defaults to 250ms.
	ReadTimeout time.Duration
	// Port, when non-zero, installs a kernel "udp dst port" filter on
	// backends that support BPF.
	Port uint16
}

func applyDefaults(cfg Config) Config {
	out := cfg
	if out.Backend == "" {
		out.Backend = BackendAFPacket
	}
	if out.SnapLen <= 0 {
		out.SnapLen = 65536
	}
	if out.Promisc == nil {
		out.Promisc = ptrBool(true)
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = 250 * time.Millisecond
	}
	return out
}

func ptrBool(v bool) *bool {
	return &v
}

// Open starts a live capture on cfg.Interface.
func Open(cfg Config) (Source, error) {
	cfg = applyDefaults(cfg)
	if cfg.Interface == "" {
		return nil, errors.New("capture: no interface given")
	}

	switch cfg.Backend {
	case BackendAFPacket:
		return openAFPacket(cfg)
	case BackendPcap:
		return openPcap(cfg)
	default:
		return nil, fmt.Errorf("capture: unknown backend %q", cfg.Backend)
	}
}

// BPFFilter returns the kernel filter expression for port.
func BPFFilter(port uint16) string {
	return fmt.Sprintf("udp dst port %d", port)
}
