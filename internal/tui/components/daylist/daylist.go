package daylist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/timeline"
)

// SelectDayMsg is sent when the highlighted day changes.
type SelectDayMsg struct {
	Day int
}

// RenderDayMsg asks the parent to render the highlighted day.
type RenderDayMsg struct {
	Day int
}

type Item struct {
	Day    int
	Totals map[models.DutyStatus]float64
}

func (i Item) Title() string { return fmt.Sprintf("Day %d", i.Day+1) }

func (i Item) Description() string {
	return fmt.Sprintf("Drive %.2fh | On duty %.2fh | Off %.2fh | Sleeper %.2fh",
		i.Totals[models.StatusDriving],
		i.Totals[models.StatusOnDuty],
		i.Totals[models.StatusOffDuty],
		i.Totals[models.StatusSleeper],
	)
}

func (i Item) FilterValue() string { return i.Title() }

type KeyMap struct {
	Render key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Render: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "render png"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(summary timeline.Summary, width, height int) Model {
	l := list.New(items(summary), list.NewDefaultDelegate(), width, height)
	l.Title = "Days"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Render}
	}
	return Model{list: l, keys: keys}
}

func items(summary timeline.Summary) []list.Item {
	out := make([]list.Item, len(summary.PerDay))
	for d, totals := range summary.PerDay {
		out[d] = Item{Day: d, Totals: totals}
	}
	return out
}

func (m *Model) SetSummary(summary timeline.Summary) {
	m.list.SetItems(items(summary))
}

// Selected returns the highlighted day index.
func (m Model) Selected() int {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Day
	}
	return 0
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Render) {
		day := m.Selected()
		return m, func() tea.Msg { return RenderDayMsg{Day: day} }
	}

	before := m.Selected()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if after := m.Selected(); after != before {
		return m, tea.Batch(cmd, func() tea.Msg { return SelectDayMsg{Day: after} })
	}
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  Trip has no intervals."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
