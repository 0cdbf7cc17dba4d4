package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/render"
	"github.com/julianstephens/logsheet/internal/tui/components/daylist"
)

type memStore struct {
	cfg models.CalibrationConfig
	ok  bool
}

func (m *memStore) LoadCalibration() (models.CalibrationConfig, bool) { return m.cfg, m.ok }

func (m *memStore) SaveCalibration(cfg models.CalibrationConfig) error {
	m.cfg, m.ok = cfg, true
	return nil
}

func testTrip() models.Trip {
	return models.Trip{Logs: []models.StatusInterval{
		{Status: models.StatusOnDuty, Start: 0, End: 1, Remark: "Pre-trip"},
		{Status: models.StatusDriving, Start: 1, End: 11},
		{Status: models.StatusSleeper, Start: 11, End: 30},
	}}
}

func newTestModel(t *testing.T, store *memStore) Model {
	t.Helper()
	return NewModel(Options{
		Trip:     testTrip(),
		Store:    store,
		Renderer: render.New(render.DefaultStyle()),
		Asset:    render.FailedAsset(errors.New("no template")),
		OutDir:   t.TempDir(),
	})
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestTabsCycle(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m, _ = update(m, keyMsg("tab"))
	if m.state != StateSegments {
		t.Errorf("after tab state = %v, want segments", m.state)
	}
	m, _ = update(m, keyMsg("tab"))
	m, _ = update(m, keyMsg("tab"))
	if m.state != StateDays {
		t.Errorf("tabs should wrap around, got %v", m.state)
	}
	m, _ = update(m, keyMsg("shift+tab"))
	if m.state != StateCalibration {
		t.Errorf("shift+tab from days should go to calibration, got %v", m.state)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, &memStore{})
	m, cmd := update(m, keyMsg("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestSegmentsDayNavigation(t *testing.T) {
	m := newTestModel(t, &memStore{})
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(m, keyMsg("tab"))

	m, _ = update(m, keyMsg("l"))
	if m.segView.Day() != 1 {
		t.Errorf("day = %d, want 1", m.segView.Day())
	}
	m, _ = update(m, keyMsg("l"))
	if m.segView.Day() != 1 {
		t.Errorf("should not move past the last day, got %d", m.segView.Day())
	}
	m, _ = update(m, keyMsg("h"))
	m, _ = update(m, keyMsg("h"))
	if m.segView.Day() != 0 {
		t.Errorf("should not move before day 0, got %d", m.segView.Day())
	}

	m, _ = update(m, daylist.SelectDayMsg{Day: 1})
	if m.segView.Day() != 1 {
		t.Errorf("SelectDayMsg should switch the segment view")
	}
}

func TestRenderWritesPNG(t *testing.T) {
	m := newTestModel(t, &memStore{})
	m, cmd := update(m, daylist.RenderDayMsg{Day: 0})
	if cmd == nil {
		t.Fatal("expected a render command")
	}

	m, _ = update(m, cmd())
	if !strings.HasPrefix(m.status, "Wrote ") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if _, err := os.Stat(filepath.Join(m.opts.OutDir, "day-01.png")); err != nil {
		t.Error(err)
	}
}

func TestCalibrationViewReportsSource(t *testing.T) {
	m := newTestModel(t, &memStore{})
	if !strings.Contains(m.viewCalibration(), "default") {
		t.Error("empty store should report the default calibration")
	}

	stored := models.DefaultCalibration()
	stored.GridStartX = 77
	m = newTestModel(t, &memStore{cfg: stored, ok: true})
	view := m.viewCalibration()
	if !strings.Contains(view, "Stored calibration") || !strings.Contains(view, "77") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestEditOpensForm(t *testing.T) {
	m := newTestModel(t, &memStore{})
	m, _ = update(m, keyMsg("shift+tab"))
	m, _ = update(m, keyMsg("e"))
	if m.state != StateEditing || m.form == nil {
		t.Fatalf("e should open the calibration form, state %v", m.state)
	}
	if m.calForm.Values[0] != "105" {
		t.Errorf("form should be pre-filled, got %q", m.calForm.Values[0])
	}

	m, _ = update(m, keyMsg("esc"))
	if m.state != StateCalibration {
		t.Errorf("esc should close the form, state %v", m.state)
	}
}

func TestValidationWarning(t *testing.T) {
	m := NewModel(Options{Trip: models.Trip{Logs: []models.StatusInterval{
		{Status: models.StatusDriving, Start: 0, End: 5},
		{Status: models.StatusOnDuty, Start: 3, End: 6},
	}}})
	if !strings.Contains(m.validationWarning, "1 interval warning") {
		t.Errorf("unexpected warning %q", m.validationWarning)
	}
}

func TestCalibrationFormConfig(t *testing.T) {
	tests := []struct {
		name    string
		values  [7]string
		wantErr bool
		left    int
		right   int
	}{
		{"in order", [7]string{"100", "900", "300", "330", "360", "390", "450"}, false, 100, 900},
		{"reversed edges", [7]string{"900", "100", "300", "330", "360", "390", "450"}, false, 100, 900},
		{"equal edges", [7]string{"500", "500", "300", "330", "360", "390", "450"}, true, 0, 0},
		{"not a number", [7]string{"left", "900", "300", "330", "360", "390", "450"}, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := &CalibrationFormModel{Values: tt.values}
			cfg, err := fm.Config(models.ImageSize{Width: 1000, Height: 600})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Config() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg.GridStartX != tt.left || cfg.GridEndX != tt.right {
				t.Errorf("edges = %d..%d, want %d..%d", cfg.GridStartX, cfg.GridEndX, tt.left, tt.right)
			}
			if cfg.RowY[models.StatusDriving] != 360 || cfg.RemarksY != 450 {
				t.Errorf("unexpected rows %+v", cfg)
			}
		})
	}
}

func TestFormFromConfigRoundTrip(t *testing.T) {
	cfg := models.DefaultCalibration()
	got, err := FormFromConfig(cfg).Config(cfg.ImageSize)
	if err != nil {
		t.Fatal(err)
	}
	if got.GridEndX != cfg.GridEndX || got.RowY[models.StatusSleeper] != cfg.RowY[models.StatusSleeper] {
		t.Errorf("round trip changed the config: %+v", got)
	}
}

func TestValidatePixel(t *testing.T) {
	for _, s := range []string{"0", " 42 "} {
		if err := validatePixel(s); err != nil {
			t.Errorf("validatePixel(%q) = %v", s, err)
		}
	}
	for _, s := range []string{"", "-1", "1.5"} {
		if err := validatePixel(s); err == nil {
			t.Errorf("validatePixel(%q) should fail", s)
		}
	}
}
