// Package tui is the terminal browser for a trip's log sheets.
package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/render"
	"github.com/julianstephens/logsheet/internal/storage"
	"github.com/julianstephens/logsheet/internal/timeline"
	"github.com/julianstephens/logsheet/internal/tui/components/daylist"
	"github.com/julianstephens/logsheet/internal/tui/components/segments"
	"github.com/julianstephens/logsheet/internal/validation"
)

type SessionState int

const (
	StateDays SessionState = iota
	StateSegments
	StateCalibration
	StateEditing
)

// tabCount is the number of tabbed states; StateEditing is modal.
const tabCount = 3

// Options configures a Model.
type Options struct {
	Trip     models.Trip
	Store    storage.CalibrationStore
	Renderer *render.Renderer
	Asset    *render.Asset
	OutDir   string
}

type renderedMsg struct {
	path string
	err  error
}

type Model struct {
	opts              Options
	summary           timeline.Summary
	calibration       models.CalibrationConfig
	stored            bool
	state             SessionState
	keys              KeyMap
	help              help.Model
	dayList           daylist.Model
	segView           segments.Model
	form              *huh.Form
	calForm           *CalibrationFormModel
	status            string
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(opts Options) Model {
	summary := timeline.Summarize(opts.Trip.Logs)

	m := Model{
		opts:    opts,
		summary: summary,
		state:   StateDays,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		dayList: daylist.New(summary, 0, 0),
		segView: segments.New(opts.Trip.Logs, 0, 0),
	}
	m.loadCalibration()

	result := validation.New().ValidateIntervals(opts.Trip.Logs)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d interval warning(s), see 'logsheet validate'", len(result.Conflicts))
	}
	return m
}

func (m *Model) loadCalibration() {
	if m.opts.Store != nil {
		if cfg, ok := m.opts.Store.LoadCalibration(); ok {
			m.calibration, m.stored = cfg, true
			return
		}
	}
	m.calibration, m.stored = storage.ResolveCalibration(m.opts.Store), false
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDays:
		keys = append(keys, m.keys.Render)
	case StateSegments:
		keys = append(keys, m.keys.Prev, m.keys.Next, m.keys.Render)
	case StateCalibration:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Prev, m.keys.Next}
	actions := []key.Binding{m.keys.Render, m.keys.Edit}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// renderDay draws one sheet and writes it into the output directory.
func (m Model) renderDay(day int) tea.Cmd {
	opts, cfg := m.opts, m.calibration
	return func() tea.Msg {
		img, err := opts.Renderer.RenderDay(context.Background(), opts.Asset, cfg, opts.Trip.Logs, day)
		if err != nil {
			return renderedMsg{err: err}
		}
		path := filepath.Join(opts.OutDir, render.DayFileName(day))
		return renderedMsg{path: path, err: render.SavePNG(path, img)}
	}
}
