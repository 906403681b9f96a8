package analysis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"udpwatch/internal/decode"
	"udpwatch/internal/models"
)

func TestDropCounter(t *testing.T) {
	d := NewDropCounter()
	d.AddEmpty()
	d.Add(decode.ErrShortFrame)
	d.Add(decode.ErrShortFrame)
	d.Add(decode.ErrPortMismatch)
	d.Add(fmt.Errorf("wrapped: %w", decode.ErrBadUDPLength))
	d.Add(decode.ErrOutOfBounds)
	d.Add(errors.New("something else"))

	got := d.Snapshot()
	assert.Equal(t, models.DropCounts{
		Empty:        1,
		Short:        2,
		PortMismatch: 1,
		BadUDPLength: 1,
		OutOfBounds:  2,
	}, got)
	assert.Equal(t, uint64(7), got.Total())
}

func TestGetServiceName(t *testing.T) {
	assert.Equal(t, "NTP", GetServiceName(123))
	assert.Equal(t, "FPGA-TX", GetServiceName(32775))
	assert.Equal(t, "40000", GetServiceName(40000))
}
