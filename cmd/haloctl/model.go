package main

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nightgrid/halo/internal/control"
)

type model struct {
	facade   *control.Facade
	spinner  spinner.Model
	bar      progress.Model
	tiles    []control.TileSummary
	cursor   int
	quitting bool
	err      error
}

func newModel(facade *control.Facade) model {
	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	p := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage())

	return model{
		facade:  facade,
		spinner: s,
		bar:     p,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick, refreshTiles(m.facade))
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type tilesMsg struct {
	tiles []control.TileSummary
	err   error
}

func refreshTiles(facade *control.Facade) tea.Cmd {
	return func() tea.Msg {
		tiles, err := facade.ListTiles()
		return tilesMsg{tiles: tiles, err: err}
	}
}
