//go:build linux

package capture

import (
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"
	log "github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// afpacketSource reads from a TPACKET ring bound to one interface.
type afpacketSource struct {
	tp *afpacket.TPacket

	link           netlink.Link
	restorePromisc bool
}

func openAFPacket(cfg Config) (Source, error) {
	link, err := netlink.LinkByName(cfg.Interface)
	if err != nil {
		return nil, fmt.Errorf("could not get interface %s: %w", cfg.Interface, err)
	}

	tp, err := afpacket.NewTPacket(
		afpacket.OptInterface(cfg.Interface),
		afpacket.OptFrameSize(afpacket.DefaultFrameSize),
		afpacket.OptBlockSize(1<<20),
		afpacket.OptNumBlocks(64),
		afpacket.OptPollTimeout(cfg.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("could not open af_packet socket on %s: %w", cfg.Interface, err)
	}

	s := &afpacketSource{tp: tp, link: link}
	if *cfg.Promisc && link.Attrs().Promisc == 0 {
		if err := netlink.SetPromiscOn(link); err != nil {
			tp.Close()
			return nil, fmt.Errorf("could not enable promiscuous mode on %s: %w", cfg.Interface, err)
		}
		s.restorePromisc = true
	}
	return s, nil
}

func (s *afpacketSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	data, ci, err := s.tp.ReadPacketData()
	if errors.Is(err, afpacket.ErrTimeout) {
		return nil, ci, ErrTimeout
	}
	return data, ci, err
}

func (s *afpacketSource) WritePacketData(data []byte) error {
	return s.tp.WritePacketData(data)
}

func (s *afpacketSource) Close() {
	s.tp.Close()
	if s.restorePromisc {
		if err := netlink.SetPromiscOff(s.link); err != nil {
			log.WithError(err).WithField("iface", s.link.Attrs().Name).Warn("could not restore promiscuous mode")
		}
	}
}
