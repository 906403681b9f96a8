package reporting

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"

	"udpwatch/internal/analysis"
	"udpwatch/internal/models"
)

// PreviewLen is how many payload bytes the ASCII preview shows.
const PreviewLen = 64

// Console writes a plain-text trace of accepted frames and throughput
// summaries. With Verbose unset only summaries are written.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	Verbose bool
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, verbose bool) *Console {
	return &Console{w: w, Verbose: verbose}
}

// Banner writes the startup header.
func (c *Console) Banner(source string, port uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "UDP raw frame monitor + throughput\nSource: %s | Filter port: %d (%s)\n\n",
		source, port, analysis.GetServiceName(port))
}

// OnFrame writes the hex dump and decoded header of one frame.
func (c *Console) OnFrame(raw []byte, f models.UDPFrame) {
	if !c.Verbose {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n=== RAW PACKET RECEIVED (len=%d bytes) ===\n", len(raw))
	b.WriteString(indent(hex.Dump(raw), "    "))
	fmt.Fprintf(&b, "    Ethernet Src MAC : %s\n", f.EthSrc)
	fmt.Fprintf(&b, "    IP Src  : %s\n", f.SrcIP)
	fmt.Fprintf(&b, "    IP Dst  : %s\n", f.DstIP)
	fmt.Fprintf(&b, "    UDP Src Port : %d\n", uint16(f.SrcPort))
	fmt.Fprintf(&b, "    UDP Dst Port : %d\n", uint16(f.DstPort))
	fmt.Fprintf(&b, "    IP Total Len : %d bytes\n", f.IPTotalLen)
	fmt.Fprintf(&b, "    UDP Length   : %d bytes\n", f.UDPLen)
	fmt.Fprintf(&b, "    Payload Len  : %d bytes", f.PayloadLen())
	if f.Truncated {
		fmt.Fprintf(&b, " (truncated, %d declared)", int(f.UDPLen)-8)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "    Payload (ASCII): \"%s\"\n", ASCIIPreview(f.Payload, PreviewLen))

	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.w, b.String())
}

// OnSummary writes one throughput line.
func (c *Console) OnSummary(s models.ThroughputSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "\nTHROUGHPUT: %.3f Mbps | %.3f kpps | %d pkts | avg %.3f B/pkt\n\n",
		s.Mbps, s.Kpps, s.Packets, s.AvgBytes)
}

// Totals writes the end of session counters.
func (c *Console) Totals(t models.Totals, d models.DropCounts) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "Total: %d packets, %s payload | dropped %d (empty %d, short %d, other port %d, bad udp length %d, out of bounds %d)\n",
		t.Packets, formatBytes(int64(t.Bytes)), d.Total(), d.Empty, d.Short, d.PortMismatch, d.BadUDPLength, d.OutOfBounds)
}

// ASCIIPreview renders up to max bytes of p, replacing non-printable bytes
// with '.' and appending "..." when p is longer.
func ASCIIPreview(p []byte, max int) string {
	n := len(p)
	if n > max {
		n = max
	}
	out := make([]byte, 0, n+3)
	for _, c := range p[:n] {
		if c >= 32 && c <= 126 {
			out = append(out, c)
		} else {
			out = append(out, '.')
		}
	}
	if len(p) > max {
		out = append(out, "..."...)
	}
	return string(out)
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	return b.String()
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
