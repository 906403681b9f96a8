package models

import "time"

// ThroughputSummary is the report produced when a measurement window closes.
type ThroughputSummary struct {
	At       time.Time
	Elapsed  time.Duration
	Bytes    uint64
	Packets  uint64
	Mbps     float64
	Kpps     float64
	AvgBytes float64 // payload bytes per packet, 0 for an empty window
}

// Totals are the lifetime counters of accepted frames.
type Totals struct {
	Bytes   uint64
	Packets uint64
}

// DropCounts tallies frames that were read but not counted, by reason.
type DropCounts struct {
	Empty        uint64
	Short        uint64
	PortMismatch uint64
	BadUDPLength uint64
	OutOfBounds  uint64
}

// Total returns the sum of all drop reasons.
func (d DropCounts) Total() uint64 {
	return d.Empty + d.Short + d.PortMismatch + d.BadUDPLength + d.OutOfBounds
}
