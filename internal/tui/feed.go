package tui

import (
	"sync"
	"time"

	"udpwatch/internal/analysis"
	"udpwatch/internal/models"
	"udpwatch/internal/reporting"
)

const maxRecent = 10

// FrameRow is the part of an accepted frame the dashboard shows.
type FrameRow struct {
	Seen       time.Time
	Src        string
	Dst        string
	PayloadLen int
	Truncated  bool
	Preview    string
}

// Snapshot is what the dashboard renders on each tick.
type Snapshot struct {
	Recent      []FrameRow
	Latest      models.ThroughputSummary
	HaveSummary bool
	Totals      models.Totals
	Drops       models.DropCounts
}

// Feed is a capture sink that keeps the latest summary and the most recent
// frames for the dashboard to poll.
type Feed struct {
	mu          sync.Mutex
	recent      []FrameRow
	latest      models.ThroughputSummary
	haveSummary bool

	agg   *analysis.Aggregator
	drops *analysis.DropCounter
	now   func() time.Time
}

// NewFeed creates a Feed reading totals from agg and drops.
func NewFeed(agg *analysis.Aggregator, drops *analysis.DropCounter) *Feed {
	return &Feed{
		recent: make([]FrameRow, 0, maxRecent),
		agg:    agg,
		drops:  drops,
		now:    time.Now,
	}
}

// OnFrame copies what the dashboard needs out of f; nothing aliases the
// capture buffer after it returns.
func (f *Feed) OnFrame(raw []byte, fr models.UDPFrame) {
	row := FrameRow{
		Seen:       f.now(),
		Src:        hostPort(fr.SrcIP.String(), uint16(fr.SrcPort)),
		Dst:        hostPort(fr.DstIP.String(), uint16(fr.DstPort)),
		PayloadLen: fr.PayloadLen(),
		Truncated:  fr.Truncated,
		Preview:    reporting.ASCIIPreview(fr.Payload, 24),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.recent = append(f.recent, row)
	if len(f.recent) > maxRecent {
		f.recent = f.recent[len(f.recent)-maxRecent:]
	}
}

// OnSummary stores s as the latest window.
func (f *Feed) OnSummary(s models.ThroughputSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = s
	f.haveSummary = true
}

// Snapshot returns a copy of the current state, newest frame first.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	s := Snapshot{
		Recent:      make([]FrameRow, len(f.recent)),
		Latest:      f.latest,
		HaveSummary: f.haveSummary,
	}
	for i, r := range f.recent {
		s.Recent[len(f.recent)-1-i] = r
	}
	f.mu.Unlock()

	if f.agg != nil {
		s.Totals = f.agg.Totals()
	}
	if f.drops != nil {
		s.Drops = f.drops.Snapshot()
	}
	return s
}

func hostPort(ip string, port uint16) string {
	return ip + ":" + analysis.GetServiceName(port)
}
