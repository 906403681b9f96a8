package capture

import (
	"bufio"
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// fileSource replays frames from a classic pcap file. It returns io.EOF
// once the file is exhausted.
type fileSource struct {
	f *os.File
	r *pcapgo.Reader
}

// OpenFile opens a pcap file recorded on an Ethernet interface for replay.
func OpenFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PCAP file %s: %w", path, err)
	}

	r, err := pcapgo.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read PCAP header from %s: %w", path, err)
	}
	if lt := r.LinkType(); lt != layers.LinkTypeEthernet {
		f.Close()
		return nil, fmt.Errorf("%s: unsupported link type %v, need Ethernet", path, lt)
	}
	return &fileSource{f: f, r: r}, nil
}

func (s *fileSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	return s.r.ReadPacketData()
}

func (s *fileSource) Close() {
	s.f.Close()
}
