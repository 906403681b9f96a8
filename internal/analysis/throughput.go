package analysis

import (
	"sync"
	"time"

	"udpwatch/internal/models"
)

// DefaultWindow is the measurement interval used when none is configured.
const DefaultWindow = 1000 * time.Millisecond

// Aggregator tracks lifetime totals and a resettable measurement window of
// accepted UDP payloads.
type Aggregator struct {
	mu sync.Mutex

	window time.Duration

	totalBytes   uint64
	totalPackets uint64

	windowBytes   uint64
	windowPackets uint64
	windowStart   time.Time
}

// NewAggregator creates an Aggregator whose first window starts at now.
func NewAggregator(window time.Duration, now time.Time) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Aggregator{
		window:      window,
		windowStart: now,
	}
}

// Window returns the configured measurement interval.
func (a *Aggregator) Window() time.Duration {
	return a.window
}

// WindowStart returns the time the current window began.
func (a *Aggregator) WindowStart() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.windowStart
}

// Record counts one accepted packet with payloadLen bytes of payload.
func (a *Aggregator) Record(payloadLen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalBytes += payloadLen
	a.totalPackets++
	a.windowBytes += payloadLen
	a.windowPackets++
}

// MaybeEmit closes the current window if at least one interval has elapsed
// since it started. The summary is computed from the window counters before
// they are reset; the next window starts at now.
func (a *Aggregator) MaybeEmit(now time.Time) (models.ThroughputSummary, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	elapsed := now.Sub(a.windowStart)
	if elapsed < a.window {
		return models.ThroughputSummary{}, false
	}

	sec := float64(elapsed.Milliseconds()) / 1000.0
	s := models.ThroughputSummary{
		At:      now,
		Elapsed: elapsed,
		Bytes:   a.windowBytes,
		Packets: a.windowPackets,
	}
	if sec > 0 {
		s.Mbps = float64(a.windowBytes) * 8 / (sec * 1e6)
		s.Kpps = float64(a.windowPackets) / (sec * 1000.0)
	}
	if a.windowPackets > 0 {
		s.AvgBytes = float64(a.windowBytes) / float64(a.windowPackets)
	}

	a.windowBytes = 0
	a.windowPackets = 0
	a.windowStart = now

	return s, true
}

// Totals returns the lifetime counters.
func (a *Aggregator) Totals() models.Totals {
	a.mu.Lock()
	defer a.mu.Unlock()
	return models.Totals{Bytes: a.totalBytes, Packets: a.totalPackets}
}

// Pending returns the counters of the window that is still open.
func (a *Aggregator) Pending() models.Totals {
	a.mu.Lock()
	defer a.mu.Unlock()
	return models.Totals{Bytes: a.windowBytes, Packets: a.windowPackets}
}

// SetWindowStart moves the start of the open window to t without touching
// any counters. Replays use it to align the first window with the first
// captured timestamp.
func (a *Aggregator) SetWindowStart(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.windowStart = t
}
