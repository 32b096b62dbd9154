package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m model) View() string {
	if m.quitting {
		return "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n %s haloctl — %d tiles\n\n", m.spinner.View(), len(m.tiles))

	if m.err != nil {
		fmt.Fprintf(&b, " error: %v\n", m.err)
	}

	for i, tile := range m.tiles {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		status := "off"
		if tile.Enabled {
			status = "on "
		}

		line := fmt.Sprintf("%s%-4d %-16s %s %s %4.0f%%", cursor, tile.ID, tile.Name, status, m.bar.ViewAs(tile.Amount), tile.Amount*100)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else if !tile.Enabled {
			b.WriteString(disabledStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n ↑/↓ select · enter toggle · +/- nudge · q quit\n")
	return b.String()
}
