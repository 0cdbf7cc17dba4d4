package storage

import (
	"errors"

	"github.com/julianstephens/logsheet/internal/models"
)

var (
	// ErrNotLoaded is returned when a store is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrNotFound is returned for a missing setting.
	ErrNotFound = errors.New("not found")
)

// CalibrationStore persists the active calibration. LoadCalibration reports
// ok=false when nothing usable is stored; callers fall back through
// ResolveCalibration.
type CalibrationStore interface {
	LoadCalibration() (models.CalibrationConfig, bool)
	SaveCalibration(models.CalibrationConfig) error
}

// Provider is a full backing store.
type Provider interface {
	CalibrationStore

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Calibration
	ResetCalibration() error
	GetCalibrationHistory(limit int) ([]models.CalibrationRecord, error)

	// Settings
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error

	// Utils
	SchemaVersion() (int, error)
	GetConfigPath() string
}
