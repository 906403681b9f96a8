package analysis

import (
	"errors"
	"sync"

	"udpwatch/internal/decode"
	"udpwatch/internal/models"
)

// DropCounter tallies frames that did not make it into the throughput
// counters, keyed by the decoder's rejection reason.
type DropCounter struct {
	mu     sync.Mutex
	counts models.DropCounts
}

// NewDropCounter creates an empty DropCounter.
func NewDropCounter() *DropCounter {
	return &DropCounter{}
}

// AddEmpty counts a zero-length read.
func (d *DropCounter) AddEmpty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counts.Empty++
}

// Add counts a frame rejected by the decoder with err. Unknown errors are
// counted as out of bounds reads.
func (d *DropCounter) Add(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case errors.Is(err, decode.ErrShortFrame):
		d.counts.Short++
	case errors.Is(err, decode.ErrPortMismatch):
		d.counts.PortMismatch++
	case errors.Is(err, decode.ErrBadUDPLength):
		d.counts.BadUDPLength++
	default:
		d.counts.OutOfBounds++
	}
}

// Snapshot returns a copy of the current counts.
func (d *DropCounter) Snapshot() models.DropCounts {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts
}
