//go:build !linux

package capture

import "errors"

func openAFPacket(cfg Config) (Source, error) {
	return nil, errors.New("capture: afpacket backend is only available on linux, use -backend pcap")
}
