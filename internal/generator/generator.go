// Package generator sends a fixed UDP payload at a steady rate, either
// through a UDP socket or as complete Ethernet frames injected on an
// interface.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"udpwatch/internal/capture"
	"udpwatch/internal/framegen"
)

// DefaultPayload is twelve bytes of 0xAA.
var DefaultPayload = bytes.Repeat([]byte{0xAA}, 12)

// Config controls pacing and volume.
type Config struct {
	Payload []byte
	// Rate is datagrams per second. Zero or negative sends as fast as possible.
	Rate float64
	// Count stops after this many datagrams. Zero runs until ctx is done.
	Count int
	// LogEvery logs progress every N datagrams. Zero disables progress logs.
	LogEvery int
}

func (c Config) limiter() *rate.Limiter {
	if c.Rate <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(c.Rate), 1)
}

func (c Config) payload() []byte {
	if c.Payload == nil {
		return DefaultPayload
	}
	return c.Payload
}

// Run writes the payload to w, typically a connected UDP socket, until
// Count datagrams are sent or ctx is done. It returns how many were sent.
// Cancellation is not an error.
func Run(ctx context.Context, w io.Writer, cfg Config) (int, error) {
	payload := cfg.payload()
	return loop(ctx, cfg, func() error {
		_, err := w.Write(payload)
		return err
	})
}

// RunFrames builds one Ethernet/IPv4/UDP frame from tmpl with the configured
// payload and injects it repeatedly through inj.
func RunFrames(ctx context.Context, inj capture.Injector, tmpl framegen.UDPFrame, cfg Config) (int, error) {
	tmpl.Payload = cfg.payload()
	frame, err := framegen.Build(tmpl)
	if err != nil {
		return 0, err
	}
	return loop(ctx, cfg, func() error {
		return inj.WritePacketData(frame)
	})
}

func loop(ctx context.Context, cfg Config, send func() error) (int, error) {
	lim := cfg.limiter()
	sent := 0
	for cfg.Count <= 0 || sent < cfg.Count {
		if err := lim.Wait(ctx); err != nil {
			// Wait fails when ctx is done or its deadline is too close.
			return sent, nil
		}
		if err := send(); err != nil {
			return sent, fmt.Errorf("send datagram %d: %w", sent+1, err)
		}
		sent++
		if cfg.LogEvery > 0 && sent%cfg.LogEvery == 0 {
			log.WithField("sent", sent).Info("generator progress")
		}
	}
	return sent, nil
}
