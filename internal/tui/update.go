package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.snap = m.feed.Snapshot()
		m.table.SetRows(frameRows(m.snap.Recent))
		// Stay on screen so the error stays readable until the user quits.
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		m.snap = m.feed.Snapshot()
		m.table.SetRows(frameRows(m.snap.Recent))
		return m, tickCmd()
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func frameRows(recent []FrameRow) []table.Row {
	rows := make([]table.Row, len(recent))
	for i, r := range recent {
		size := fmt.Sprintf("%d", r.PayloadLen)
		if r.Truncated {
			size += "*"
		}
		rows[i] = table.Row{r.Seen.Format("15:04:05.000"), r.Src, r.Dst, size, r.Preview}
	}
	return rows
}
