package segments

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/timeline"
)

// cellsPerHour sets the chart resolution: one cell per half hour.
const cellsPerHour = 2

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(14)

	gapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	rowLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14)

	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))
)

type Model struct {
	viewport  viewport.Model
	intervals []models.StatusInterval
	day       int
	width     int
	height    int
}

func New(intervals []models.StatusInterval, width, height int) Model {
	m := Model{viewport: viewport.New(width, height), intervals: intervals}
	m.Render()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetDay(day int) {
	m.day = day
	m.Render()
}

func (m Model) Day() int {
	return m.day
}

func (m *Model) Render() {
	m.viewport.SetContent(Content(m.intervals, m.day))
	m.viewport.GotoTop()
}

// Content renders one day as a text chart followed by its segment list.
func Content(intervals []models.StatusInterval, day int) string {
	segs := timeline.DaySegments(intervals, day)

	var b strings.Builder
	fmt.Fprintf(&b, "Day %d\n\n", day+1)
	b.WriteString(Chart(segs))
	b.WriteString("\n")

	for _, seg := range segs {
		label := seg.Status.Label()
		if seg.IsGap {
			label = gapStyle.Render(label + " (gap)")
		} else {
			label = statusStyle.Render(label)
		}
		line := fmt.Sprintf("%s %s %s\n",
			timeStyle.Render(fmt.Sprintf("%s - %s", clock(seg.Start), clock(seg.End))),
			label,
			seg.Remark,
		)
		b.WriteString(line)
	}
	return b.String()
}

// Chart draws the four status rows as text, one cell per half hour.
func Chart(segs []models.DaySegment) string {
	width := int(constants.HoursPerDay) * cellsPerHour
	rows := make(map[models.DutyStatus][]rune, len(models.DutyStatuses))
	for _, st := range models.DutyStatuses {
		rows[st] = []rune(strings.Repeat("·", width))
	}

	for _, seg := range segs {
		status := seg.Status
		if !status.Known() {
			status = models.StatusOffDuty
		}
		from := int(math.Round(seg.Start * cellsPerHour))
		to := int(math.Round(seg.End * cellsPerHour))
		for c := from; c < to && c < width; c++ {
			rows[status][c] = '━'
		}
	}

	var b strings.Builder
	for _, st := range models.DutyStatuses {
		b.WriteString(rowLabelStyle.Render(st.Label()))
		b.WriteString(lineStyle.Render(string(rows[st])))
		b.WriteString("\n")
	}
	return b.String()
}

func clock(hour float64) string {
	minutes := int(math.Round(hour * 60))
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
