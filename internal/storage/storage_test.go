package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/models"
)

type memStore struct {
	cfg   models.CalibrationConfig
	ok    bool
	saved int
}

func (m *memStore) LoadCalibration() (models.CalibrationConfig, bool) { return m.cfg, m.ok }

func (m *memStore) SaveCalibration(cfg models.CalibrationConfig) error {
	m.cfg, m.ok = cfg, true
	m.saved++
	return nil
}

func TestResolveCalibration(t *testing.T) {
	custom := models.DefaultCalibration()
	custom.GridStartX = 42

	tests := []struct {
		name  string
		store CalibrationStore
		want  int
	}{
		{"nil store", nil, 105},
		{"empty store", &memStore{}, 105},
		{"stored config", &memStore{cfg: custom, ok: true}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCalibration(tt.store); got.GridStartX != tt.want {
				t.Errorf("GridStartX = %d, want %d", got.GridStartX, tt.want)
			}
		})
	}
}

func TestDecodeCalibration(t *testing.T) {
	tests := []struct {
		name string
		data string
		ok   bool
	}{
		{
			name: "valid",
			data: `{"gridStartX":105,"gridEndX":1095,"rowY":{"OFF_DUTY":330,"SLEEPER":362,"DRIVING":394,"ON_DUTY":426},"remarksY":500,"imageSize":{"width":1200,"height":800}}`,
			ok:   true,
		},
		{"malformed", `{"gridStartX":`, false},
		{"reversed grid", `{"gridStartX":900,"gridEndX":100,"rowY":{"OFF_DUTY":1,"SLEEPER":2,"DRIVING":3,"ON_DUTY":4}}`, false},
		{"missing row", `{"gridStartX":100,"gridEndX":900,"rowY":{"OFF_DUTY":1}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := DecodeCalibration([]byte(tt.data), "test")
			if ok != tt.ok {
				t.Errorf("DecodeCalibration() ok = %v, want %v", ok, tt.ok)
			}
		})
	}
}

func TestEncodeCalibrationRejectsInvalid(t *testing.T) {
	cfg := models.DefaultCalibration()
	cfg.GridEndX = cfg.GridStartX

	if _, err := EncodeCalibration(cfg); !errors.Is(err, models.ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid, got %v", err)
	}
}

func newJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	s := NewJSONStore(filepath.Join(t.TempDir(), "logsheet.json"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func TestJSONStoreCalibrationRoundTrip(t *testing.T) {
	s := newJSONStore(t)

	if _, ok := s.LoadCalibration(); ok {
		t.Fatal("fresh store should have no calibration")
	}
	if got := ResolveCalibration(s); got.GridEndX != models.DefaultCalibration().GridEndX {
		t.Errorf("fresh store should resolve to the default, got %+v", got)
	}

	cfg := models.DefaultCalibration()
	cfg.RowY[models.StatusDriving] = 400
	if err := s.SaveCalibration(cfg); err != nil {
		t.Fatalf("SaveCalibration failed: %v", err)
	}

	reopened := NewJSONStore(s.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, ok := reopened.LoadCalibration()
	if !ok {
		t.Fatal("expected a stored calibration")
	}
	if got.RowY[models.StatusDriving] != 400 {
		t.Errorf("driving row = %d, want 400", got.RowY[models.StatusDriving])
	}
}

func TestJSONStoreHistoryAndReset(t *testing.T) {
	s := newJSONStore(t)

	for _, x := range []int{100, 110, 120} {
		cfg := models.DefaultCalibration()
		cfg.GridStartX = x
		if err := s.SaveCalibration(cfg); err != nil {
			t.Fatal(err)
		}
	}

	history, err := s.GetCalibrationHistory(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].Config.GridStartX != 120 {
		t.Errorf("newest record has GridStartX %d, want 120", history[0].Config.GridStartX)
	}
	if history[0].ID == history[1].ID || history[0].ID == "" {
		t.Error("records should have distinct ids")
	}

	if err := s.ResetCalibration(); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.LoadCalibration(); ok {
		t.Error("calibration still present after reset")
	}
	if all, _ := s.GetCalibrationHistory(0); len(all) != 3 {
		t.Errorf("reset should keep history, got %d records", len(all))
	}
}

func TestJSONStoreToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logsheet.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewJSONStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load should tolerate a corrupt file, got %v", err)
	}
	if got := ResolveCalibration(s); got.GridStartX != 105 {
		t.Errorf("expected default calibration, got %+v", got)
	}
	if err := s.SaveCalibration(models.DefaultCalibration()); err != nil {
		t.Fatalf("save after corruption failed: %v", err)
	}
	if _, ok := s.LoadCalibration(); !ok {
		t.Error("store not repaired by save")
	}
}

func TestJSONStoreKeepsCorruptFileAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logsheet.json")
	corrupt := []byte(`{"version": 1, "settings": {"calibration_config": `)
	if err := os.WriteFile(path, corrupt, 0600); err != nil {
		t.Fatal(err)
	}

	s := NewJSONStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	matches, err := filepath.Glob(path + ".corrupt-*")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one quarantined file, got %v", matches)
	}
	kept, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(kept) != string(corrupt) {
		t.Errorf("quarantined contents = %q", kept)
	}

	// the store file itself is valid again, so a second load starts clean
	if err := NewJSONStore(path).Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if matches, _ := filepath.Glob(path + ".corrupt-*"); len(matches) != 1 {
		t.Errorf("reload quarantined again: %v", matches)
	}
}

func TestJSONStoreInvalidStoredCalibration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logsheet.json")
	data := `{"version":1,"settings":{"` + constants.CalibrationKey + `":{"gridStartX":5,"gridEndX":5}}}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewJSONStore(path)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.LoadCalibration(); ok {
		t.Error("invalid stored calibration should not load")
	}
}

func TestJSONStoreSettings(t *testing.T) {
	s := newJSONStore(t)

	if _, err := s.GetSetting(constants.TemplateKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetSetting(constants.TemplateKey, "/srv/templates/blank-log.png"); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetSetting(constants.TemplateKey)
	if err != nil || got != "/srv/templates/blank-log.png" {
		t.Errorf("GetSetting() = %q, %v", got, err)
	}
	if v, err := s.SchemaVersion(); err != nil || v != 1 {
		t.Errorf("SchemaVersion() = %d, %v", v, err)
	}
}

func TestJSONStoreNotLoaded(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "logsheet.json"))

	if err := s.SaveCalibration(models.DefaultCalibration()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if err := s.Load(); err == nil {
		t.Error("Load of a missing file should fail")
	}
}
