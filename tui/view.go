package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header  lipgloss.Style
	current lipgloss.Style
	cursor  lipgloss.Style
	row     lipgloss.Style
	details lipgloss.Style
	status  lipgloss.Style
	help    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:  lipgloss.NewStyle().Bold(true),
		current: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		cursor:  lipgloss.NewStyle().Reverse(true),
		row:     lipgloss.NewStyle(),
		details: lipgloss.NewStyle().Faint(true),
		status:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		help:    lipgloss.NewStyle().Faint(true),
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.header.Render(m.currentLabel()))
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')

	rows := m.state.Rows()
	if len(rows) == 0 {
		b.WriteString(m.styles.details.Render("  (no matching time zones)"))
		b.WriteByte('\n')
	}
	end := min(len(rows), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(rows[i], i == m.state.Cursor()))
		b.WriteByte('\n')
	}

	b.WriteString(m.styles.details.Render(m.details()))
	b.WriteByte('\n')
	if status := m.statusLine(); status != "" {
		b.WriteString(m.styles.status.Render(status))
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.help.Render("↑/↓ select • enter set time zone • esc quit"))
	return b.String()
}

func (m Model) currentLabel() string {
	if m.loading {
		return "Current time zone: checking..."
	}
	if zone, ok := m.state.Current(); ok {
		return "Current time zone: " + zone
	}
	return "Current time zone: unknown"
}

// renderRow depends only on the row, whether it is the host zone, and
// whether the cursor is on it.
func (m Model) renderRow(row string, cursor bool) string {
	marker := "  "
	style := m.styles.row
	if m.state.Highlighted(row) {
		marker = "* "
		style = m.styles.current
	}
	if cursor {
		return m.styles.cursor.Inherit(style).Render(marker + row)
	}
	return style.Render(marker + row)
}

// details describes the zone under the cursor.
func (m Model) details() string {
	zone, ok := m.state.Selection()
	if !ok {
		return ""
	}
	return m.state.Catalog().Describe(zone)
}

func (m Model) statusLine() string {
	if m.notice != "" {
		return m.notice
	}
	return m.state.Message()
}
