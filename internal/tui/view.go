package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"udpwatch/internal/analysis"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)
)

func (m MonitorModel) View() string {
	title := titleStyle.Render(fmt.Sprintf("udpwatch - %s - UDP dst port %d (%s)",
		m.source, m.port, analysis.GetServiceName(m.port)))

	// Throughput panel
	var qos string
	if m.snap.HaveSummary {
		s := m.snap.Latest
		qos = fmt.Sprintf("Bandwidth: %s\nPacket Rate: %.3f kpps\nPackets: %d\nAvg: %.1f B/pkt",
			formatBps(s.Mbps*1e6), s.Kpps, s.Packets, s.AvgBytes)
	} else {
		qos = "Waiting for first window..."
	}
	qosBox := infoStyle.Render(qos)

	totals := fmt.Sprintf("Total packets: %d\nTotal payload: %d B", m.snap.Totals.Packets, m.snap.Totals.Bytes)
	totalsBox := infoStyle.Render(totals)

	d := m.snap.Drops
	drops := fmt.Sprintf("Dropped: %d\nshort %d | other port %d\nbad udp len %d | empty %d",
		d.Total(), d.Short, d.PortMismatch, d.BadUDPLength, d.Empty)
	dropsBox := infoStyle.Render(drops)

	framesBox := infoStyle.Render("Recent frames\n" + m.table.View())

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, qosBox, totalsBox, dropsBox)
	body := lipgloss.JoinVertical(lipgloss.Left, title, row1, framesBox)

	footer := "\nPress q to quit."
	if m.err != nil {
		footer = "\n" + errStyle.Render("Capture stopped: "+m.err.Error()) + footer
	} else if m.done {
		footer = "\nCapture finished." + footer
	}
	return body + footer
}

func formatBps(bps float64) string {
	if bps >= 1e9 {
		return fmt.Sprintf("%.2f Gbps", bps/1e9)
	}
	if bps >= 1e6 {
		return fmt.Sprintf("%.2f Mbps", bps/1e6)
	}
	if bps >= 1e3 {
		return fmt.Sprintf("%.2f Kbps", bps/1e3)
	}
	return fmt.Sprintf("%.2f bps", bps)
}
