package capture

import (
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
	log "github.com/sirupsen/logrus"
)

// pcapSource reads through libpcap.
type pcapSource struct {
	handle *pcap.Handle
}

func openPcap(cfg Config) (Source, error) {
	handle, err := pcap.OpenLive(cfg.Interface, int32(cfg.SnapLen), *cfg.Promisc, cfg.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("could not open pcap handle on %s: %w", cfg.Interface, err)
	}

	if cfg.Port != 0 {
		filter := BPFFilter(cfg.Port)
		if err := handle.SetBPFFilter(filter); err != nil {
			handle.Close()
			return nil, fmt.Errorf("could not set BPF filter %q: %w", filter, err)
		}
		log.WithField("filter", filter).Info("pcap BPF filter set")
	}
	return &pcapSource{handle: handle}, nil
}

func (s *pcapSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	data, ci, err := s.handle.ReadPacketData()
	if errors.Is(err, pcap.NextErrorTimeoutExpired) {
		return nil, ci, ErrTimeout
	}
	return data, ci, err
}

func (s *pcapSource) WritePacketData(data []byte) error {
	return s.handle.WritePacketData(data)
}

func (s *pcapSource) Close() {
	s.handle.Close()
}
