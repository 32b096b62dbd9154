package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nightgrid/halo/internal/control"
)

const amountStep = 0.05

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tilesMsg:
		m.tiles = msg.tiles
		m.err = msg.err
		if m.cursor >= len(m.tiles) {
			m.cursor = max(0, len(m.tiles)-1)
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(tickCmd(), refreshTiles(m.facade))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.tiles)-1 {
			m.cursor++
		}
		return m, nil

	case "enter", " ":
		return m, m.toggleSelected()

	case "+", "=":
		return m, m.nudgeSelected(amountStep)

	case "-", "_":
		return m, m.nudgeSelected(-amountStep)

	default:
		return m, nil
	}
}

func (m model) toggleSelected() tea.Cmd {
	tile, ok := m.selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		if tile.Enabled {
			_ = m.facade.DisableTile(tile.ID)
		} else {
			_ = m.facade.EnableTile(tile.ID)
		}
		tiles, err := m.facade.ListTiles()
		return tilesMsg{tiles: tiles, err: err}
	}
}

func (m model) nudgeSelected(delta float64) tea.Cmd {
	tile, ok := m.selected()
	if !ok {
		return nil
	}
	amount := clamp01(tile.Amount + delta)
	return func() tea.Msg {
		_ = m.facade.SetTileAmount(tile.ID, amount)
		tiles, err := m.facade.ListTiles()
		return tilesMsg{tiles: tiles, err: err}
	}
}

func (m model) selected() (control.TileSummary, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tiles) {
		return control.TileSummary{}, false
	}
	return m.tiles[m.cursor], true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
