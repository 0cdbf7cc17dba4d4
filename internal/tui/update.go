package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/tui/components/daylist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateEditing {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := max(msg.Height-6, 1)
		m.dayList.SetSize(msg.Width-4, h)
		m.segView.SetSize(msg.Width-4, h)
		return m, nil

	case daylist.SelectDayMsg:
		m.segView.SetDay(msg.Day)
		return m, nil

	case daylist.RenderDayMsg:
		m.status = fmt.Sprintf("Rendering day %d...", msg.Day+1)
		return m, m.renderDay(msg.Day)

	case renderedMsg:
		if msg.err != nil {
			logger.Error("render failed", "error", msg.err)
			m.status = "Render failed: " + msg.err.Error()
		} else {
			m.status = "Wrote " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateDays:
		m.dayList, cmd = m.dayList.Update(msg)
	case StateSegments:
		cmd = m.updateSegments(msg)
	case StateCalibration:
		if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Edit) {
			m.calForm = FormFromConfig(m.calibration)
			m.form = NewCalibrationForm(m.calForm)
			m.state = StateEditing
			return m, m.form.Init()
		}
	}
	return m, cmd
}

func (m *Model) updateSegments(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		day := m.segView.Day()
		switch {
		case key.Matches(msg, m.keys.Prev):
			if day > 0 {
				m.segView.SetDay(day - 1)
			}
			return nil
		case key.Matches(msg, m.keys.Next):
			if day < m.summary.Days-1 {
				m.segView.SetDay(day + 1)
			}
			return nil
		case key.Matches(msg, m.keys.Render):
			m.status = fmt.Sprintf("Rendering day %d...", day+1)
			return m.renderDay(day)
		}
	}
	var cmd tea.Cmd
	m.segView, cmd = m.segView.Update(msg)
	return cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateCalibration
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateCalibration
		cfg, err := m.calForm.Config(m.calibration.ImageSize)
		if err != nil {
			m.status = "Calibration rejected: " + err.Error()
			return m, nil
		}
		if m.opts.Store == nil {
			m.status = "No store configured, calibration not saved"
			return m, nil
		}
		if err := m.opts.Store.SaveCalibration(cfg); err != nil {
			logger.Error("failed to save calibration", "error", err)
			m.status = "Save failed: " + err.Error()
			return m, nil
		}
		m.calibration, m.stored = cfg, true
		m.status = "Calibration saved"
		return m, nil
	case huh.StateAborted:
		m.state = StateCalibration
		return m, nil
	}
	return m, cmd
}
