package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udpwatch/internal/models"
)

var t0 = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func TestMaybeEmit_BeforeThresholdDoesNothing(t *testing.T) {
	agg := NewAggregator(time.Second, t0)
	agg.Record(100)

	_, ok := agg.MaybeEmit(t0)
	assert.False(t, ok)
	_, ok = agg.MaybeEmit(t0.Add(999 * time.Millisecond))
	assert.False(t, ok)

	assert.Equal(t, models.Totals{Bytes: 100, Packets: 1}, agg.Pending())
	assert.Equal(t, models.Totals{Bytes: 100, Packets: 1}, agg.Totals())
	assert.Equal(t, t0, agg.WindowStart())
}

func TestMaybeEmit_Summary(t *testing.T) {
	agg := NewAggregator(time.Second, t0)
	agg.Record(100)
	agg.Record(100)
	agg.Record(100)

	now := t0.Add(1000 * time.Millisecond)
	s, ok := agg.MaybeEmit(now)
	require.True(t, ok)

	assert.Equal(t, uint64(3), s.Packets)
	assert.Equal(t, uint64(300), s.Bytes)
	assert.Equal(t, 100.0, s.AvgBytes)
	assert.Equal(t, (300.0*8)/(1.0*1e6), s.Mbps)
	assert.Equal(t, 3/(1.0*1000.0), s.Kpps)
	assert.Equal(t, now, s.At)
	assert.Equal(t, time.Second, s.Elapsed)

	// Window is reset, totals are not.
	assert.Equal(t, models.Totals{}, agg.Pending())
	assert.Equal(t, models.Totals{Bytes: 300, Packets: 3}, agg.Totals())
	assert.Equal(t, now, agg.WindowStart())
}

func TestMaybeEmit_UsesActualElapsed(t *testing.T) {
	agg := NewAggregator(time.Second, t0)
	agg.Record(1000)

	s, ok := agg.MaybeEmit(t0.Add(2 * time.Second))
	require.True(t, ok)
	assert.InDelta(t, 1000*8/(2.0*1e6), s.Mbps, 1e-12)
	assert.InDelta(t, 1/(2.0*1000), s.Kpps, 1e-12)
}

func TestMaybeEmit_EmptyWindowReportsZeros(t *testing.T) {
	agg := NewAggregator(time.Second, t0)

	s, ok := agg.MaybeEmit(t0.Add(time.Second))
	require.True(t, ok)
	assert.Zero(t, s.Packets)
	assert.Zero(t, s.Mbps)
	assert.Zero(t, s.Kpps)
	assert.Zero(t, s.AvgBytes)
	assert.False(t, math.IsNaN(s.AvgBytes))
}

func TestRecord_ZeroLengthCountsAsPacket(t *testing.T) {
	agg := NewAggregator(time.Second, t0)
	agg.Record(0)

	s, ok := agg.MaybeEmit(t0.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, uint64(1), s.Packets)
	assert.Zero(t, s.AvgBytes)
}

func TestTotals_IndependentOfWindowBoundaries(t *testing.T) {
	agg := NewAggregator(time.Second, t0)
	now := t0
	var want, emitted uint64
	for w := 0; w < 10; w++ {
		for i := 0; i <= w; i++ {
			n := uint64(w*37 + i)
			agg.Record(n)
			want += n
		}
		now = now.Add(1100 * time.Millisecond)
		s, ok := agg.MaybeEmit(now)
		require.True(t, ok)
		emitted += s.Bytes
	}
	agg.Record(5)
	want += 5

	assert.Equal(t, want, agg.Totals().Bytes)
	assert.Equal(t, uint64(56), agg.Totals().Packets)
	assert.Equal(t, want-5, emitted)
}

func TestNewAggregator_DefaultWindow(t *testing.T) {
	agg := NewAggregator(0, t0)
	assert.Equal(t, DefaultWindow, agg.Window())
}
