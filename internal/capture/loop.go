package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"udpwatch/internal/analysis"
	"udpwatch/internal/decode"
	"udpwatch/internal/models"
)

// Sink receives accepted frames and window summaries. Frames passed to
// OnFrame alias the capture buffer and must be cloned to be kept.
type Sink interface {
	OnFrame(raw []byte, f models.UDPFrame)
	OnSummary(s models.ThroughputSummary)
}

type noopSink struct{}

func (noopSink) OnFrame([]byte, models.UDPFrame)    {}
func (noopSink) OnSummary(models.ThroughputSummary) {}

// Loop pulls frames from Source one at a time and feeds accepted ones into
// Aggregator. Frames are processed strictly in the order they are read.
type Loop struct {
	Source     Source
	Decoder    decode.Decoder
	Aggregator *analysis.Aggregator
	Drops      *analysis.DropCounter
	Sink       Sink

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// UseCaptureTime takes "now" from each frame's capture timestamp
	// instead of Clock, so replayed files reproduce their original windows.
	UseCaptureTime bool

	started bool
}

func (l *Loop) init() {
	if l.Clock == nil {
		l.Clock = time.Now
	}
	if l.Sink == nil {
		l.Sink = noopSink{}
	}
	if l.Drops == nil {
		l.Drops = analysis.NewDropCounter()
	}
	if l.Aggregator == nil {
		l.Aggregator = analysis.NewAggregator(analysis.DefaultWindow, l.Clock())
	}
}

// Run reads until ctx is cancelled or the source is exhausted. Any other
// read error ends the loop and is returned.
func (l *Loop) Run(ctx context.Context) error {
	l.init()
	log.WithField("port", l.Decoder.Port).Info("capture loop started")
	defer func() {
		totals := l.Aggregator.Totals()
		log.WithFields(log.Fields{
			"packets": totals.Packets,
			"bytes":   totals.Bytes,
			"dropped": l.Drops.Snapshot().Total(),
		}).Info("capture loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		data, ci, err := l.Source.ReadPacketData()
		switch {
		case err == nil:
		case errors.Is(err, ErrTimeout):
			l.tick(l.Clock())
			continue
		case errors.Is(err, io.EOF):
			return nil
		default:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("capture: read failed: %w", err)
		}

		now := l.Clock()
		if l.UseCaptureTime && !ci.Timestamp.IsZero() {
			now = ci.Timestamp
		}
		l.Process(data, now)
	}
}

// Process handles a single captured frame observed at now and reports
// whether it was accepted.
func (l *Loop) Process(data []byte, now time.Time) bool {
	l.init()
	if l.UseCaptureTime && !l.started {
		l.Aggregator.SetWindowStart(now)
	}
	l.started = true

	if len(data) == 0 {
		l.Drops.AddEmpty()
		return false
	}

	frame, err := l.Decoder.Decode(data)
	if err != nil {
		l.Drops.Add(err)
		return false
	}

	l.Aggregator.Record(uint64(frame.PayloadLen()))
	l.Sink.OnFrame(data, frame)
	l.tick(now)
	return true
}

func (l *Loop) tick(now time.Time) {
	if s, ok := l.Aggregator.MaybeEmit(now); ok {
		l.Sink.OnSummary(s)
	}
}
