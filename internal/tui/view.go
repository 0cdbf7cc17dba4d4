package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/logsheet/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDays:
		content = docStyle.Render(m.dayList.View())
	case StateSegments:
		content = docStyle.Render(m.segView.View())
	case StateCalibration:
		content = docStyle.Render(m.viewCalibration())
	case StateEditing:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Days", "Segments", "Calibration"} {
		active := m.state == SessionState(i) || (m.state == StateEditing && i == int(StateCalibration))
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	summary := fmt.Sprintf("  %d day(s) | drive %.2fh | on duty %.2fh | rest %.2fh",
		m.summary.Days, m.summary.DriveHours, m.summary.OnDutyHours, m.summary.RestHours)
	return header + inactiveTabStyle.Render(summary)
}

func (m Model) viewStatus() string {
	var parts []string
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	if m.status != "" {
		parts = append(parts, statusBarStyle.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewCalibration() string {
	cfg := m.calibration

	var b strings.Builder
	if m.stored {
		b.WriteString("Stored calibration\n\n")
	} else {
		b.WriteString(dangerStyle.Render("No valid stored calibration, using the default") + "\n\n")
	}

	row := func(label string, value any) {
		fmt.Fprintf(&b, "%s %v\n", labelStyle.Render(label), value)
	}
	row("Grid left x", cfg.GridStartX)
	row("Grid right x", cfg.GridEndX)
	for _, st := range models.DutyStatuses {
		row(st.Label()+" y", cfg.RowY[st])
	}
	row("Remarks y", cfg.RemarksY)
	row("Template size", fmt.Sprintf("%dx%d", cfg.ImageSize.Width, cfg.ImageSize.Height))
	return b.String()
}
