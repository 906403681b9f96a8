package reporting

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"udpwatch/internal/decode"
	"udpwatch/internal/framegen"
	"udpwatch/internal/models"
)

func TestConsoleFrameTrace(t *testing.T) {
	f := framegen.Defaults()
	f.DstPort = 32775
	f.Payload = []byte("Welcome \x00to the wiki")
	raw, err := framegen.Build(f)
	if err != nil {
		t.Fatalf("Failed to build frame: %v", err)
	}
	frame, err := decode.NewDecoder(32775).Decode(raw)
	if err != nil {
		t.Fatalf("Failed to decode frame: %v", err)
	}

	var buf bytes.Buffer
	c := NewConsole(&buf, true)
	c.OnFrame(raw, frame)
	out := buf.String()

	for _, want := range []string{
		"RAW PACKET RECEIVED (len=62 bytes)",
		"Ethernet Src MAC : ac:70:12:56:41:23",
		"IP Src  : 192.168.1.149",
		"IP Dst  : 192.168.1.144",
		"UDP Src Port : 17748",
		"UDP Dst Port : 32775",
		"IP Total Len : 48 bytes",
		"UDP Length   : 28 bytes",
		"Payload Len  : 20 bytes",
		`Payload (ASCII): "Welcome .to the wiki"`,
		"    00000000  ac 14 45 ff af c4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Trace missing %q\n%s", want, out)
		}
	}
}

func TestConsoleQuietSkipsFrames(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.OnFrame(make([]byte, 60), models.UDPFrame{})
	if buf.Len() != 0 {
		t.Errorf("Expected no output in quiet mode, got %q", buf.String())
	}
}

func TestConsoleSummary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.OnSummary(models.ThroughputSummary{
		Elapsed:  time.Second,
		Packets:  3,
		Bytes:    300,
		Mbps:     0.0024,
		Kpps:     0.003,
		AvgBytes: 100,
	})

	want := "THROUGHPUT: 0.002 Mbps | 0.003 kpps | 3 pkts | avg 100.000 B/pkt"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("Expected %q in %q", want, buf.String())
	}
}

func TestConsoleTotals(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.Totals(models.Totals{Packets: 10, Bytes: 2048}, models.DropCounts{Short: 2, PortMismatch: 5})

	out := buf.String()
	if !strings.Contains(out, "10 packets, 2.0 KB payload") {
		t.Errorf("Totals line wrong: %q", out)
	}
	if !strings.Contains(out, "dropped 7") {
		t.Errorf("Drop total wrong: %q", out)
	}
}

func TestConsoleTotalsBreakdownMatchesTotal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	d := models.DropCounts{Empty: 1, Short: 2, PortMismatch: 3, BadUDPLength: 4, OutOfBounds: 5}
	c.Totals(models.Totals{}, d)

	want := "dropped 15 (empty 1, short 2, other port 3, bad udp length 4, out of bounds 5)"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("Totals breakdown = %q, want it to contain %q", buf.String(), want)
	}
}

func TestASCIIPreview(t *testing.T) {
	long := bytes.Repeat([]byte{'A'}, 100)
	got := ASCIIPreview(long, PreviewLen)
	if got != strings.Repeat("A", 64)+"..." {
		t.Errorf("Unexpected preview %q", got)
	}
	if got := ASCIIPreview([]byte{0x41, 0x7f, 0x1f, 0x7e}, PreviewLen); got != "A..~" {
		t.Errorf("Unexpected preview %q", got)
	}
	if got := ASCIIPreview(nil, PreviewLen); got != "" {
		t.Errorf("Expected empty preview, got %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KB",
		1 << 20: "1.0 MB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
