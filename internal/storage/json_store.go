package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/models"
)

// jsonSchemaVersion is the on-disk format version of the JSON store.
const jsonSchemaVersion = 1

type jsonFile struct {
	Version  int                        `json:"version"`
	Settings map[string]json.RawMessage `json:"settings"`
	History  []jsonRecord               `json:"history"`
}

// jsonRecord keeps the config raw so one corrupt entry does not spoil the file.
type jsonRecord struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Config    json.RawMessage `json:"config"`
}

// JSONStore keeps everything in a single JSON file. Writes replace the file
// atomically.
type JSONStore struct {
	path string
	data *jsonFile
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.data = &jsonFile{Version: jsonSchemaVersion, Settings: map[string]json.RawMessage{}}
	return s.save()
}

// Load reads the file. A corrupt file is moved aside to
// <path>.corrupt-<timestamp> and replaced with an empty store.
func (s *JSONStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	data := &jsonFile{}
	if err := json.Unmarshal(raw, data); err != nil {
		aside, moveErr := s.quarantine()
		if moveErr != nil {
			return fmt.Errorf("store file is corrupt and could not be moved aside: %w", moveErr)
		}
		logger.Warn("store file is corrupt, starting empty", "path", s.path, "saved_as", aside, "error", err)

		s.data = &jsonFile{Version: jsonSchemaVersion, Settings: map[string]json.RawMessage{}}
		return s.save()
	}
	if data.Settings == nil {
		data.Settings = map[string]json.RawMessage{}
	}
	s.data = data
	return nil
}

// quarantine renames the store file to a timestamped sibling and returns
// the new path.
func (s *JSONStore) quarantine() (string, error) {
	stamp := time.Now().Format("20060102-150405")
	aside := fmt.Sprintf("%s.corrupt-%s", s.path, stamp)
	for n := 1; ; n++ {
		if _, err := os.Stat(aside); os.IsNotExist(err) {
			break
		}
		aside = fmt.Sprintf("%s.corrupt-%s-%d", s.path, stamp, n)
	}
	if err := os.Rename(s.path, aside); err != nil {
		return "", err
	}
	return aside, nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) LoadCalibration() (models.CalibrationConfig, bool) {
	if s.data == nil {
		return models.CalibrationConfig{}, false
	}
	raw, ok := s.data.Settings[constants.CalibrationKey]
	if !ok {
		return models.CalibrationConfig{}, false
	}
	return DecodeCalibration(raw, s.path)
}

func (s *JSONStore) SaveCalibration(cfg models.CalibrationConfig) error {
	if s.data == nil {
		return ErrNotLoaded
	}
	raw, err := EncodeCalibration(cfg)
	if err != nil {
		return err
	}

	s.data.Settings[constants.CalibrationKey] = raw
	s.data.History = append(s.data.History, jsonRecord{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    raw,
	})
	return s.save()
}

func (s *JSONStore) ResetCalibration() error {
	if s.data == nil {
		return ErrNotLoaded
	}
	delete(s.data.Settings, constants.CalibrationKey)
	return s.save()
}

// GetCalibrationHistory returns saved calibrations, newest first. Entries that
// no longer decode are skipped.
func (s *JSONStore) GetCalibrationHistory(limit int) ([]models.CalibrationRecord, error) {
	if s.data == nil {
		return nil, ErrNotLoaded
	}

	records := make([]models.CalibrationRecord, 0, len(s.data.History))
	for i := len(s.data.History) - 1; i >= 0; i-- {
		rec := s.data.History[i]
		cfg, ok := DecodeCalibration(rec.Config, s.path)
		if !ok {
			continue
		}
		records = append(records, models.CalibrationRecord{ID: rec.ID, CreatedAt: rec.CreatedAt, Config: cfg})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *JSONStore) GetSetting(key string) (string, error) {
	if s.data == nil {
		return "", ErrNotLoaded
	}
	raw, ok := s.data.Settings[key]
	if !ok {
		return "", fmt.Errorf("setting %q: %w", key, ErrNotFound)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		// non-string values (the calibration) are returned verbatim
		return string(raw), nil
	}
	return value, nil
}

func (s *JSONStore) SetSetting(key, value string) error {
	if s.data == nil {
		return ErrNotLoaded
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data.Settings[key] = raw
	return s.save()
}

func (s *JSONStore) SchemaVersion() (int, error) {
	if s.data == nil {
		return 0, ErrNotLoaded
	}
	return s.data.Version, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
