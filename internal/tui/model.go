package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TickMsg triggers a refresh from the feed.
type TickMsg time.Time

// DoneMsg reports that the capture loop has exited.
type DoneMsg struct {
	Err error
}

type MonitorModel struct {
	feed   *Feed
	source string
	port   uint16

	snap  Snapshot
	table table.Model
	err   error
	done  bool
}

func NewMonitorModel(feed *Feed, source string, port uint16) MonitorModel {
	columns := []table.Column{
		{Title: "Time", Width: 12},
		{Title: "Source", Width: 22},
		{Title: "Destination", Width: 22},
		{Title: "Bytes", Width: 7},
		{Title: "Payload", Width: 28},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(maxRecent),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return MonitorModel{
		feed:   feed,
		source: source,
		port:   port,
		table:  t,
	}
}

func (m MonitorModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
