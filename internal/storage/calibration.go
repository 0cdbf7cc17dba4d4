package storage

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/models"
)

// ResolveCalibration returns the stored calibration, or the built-in default
// when the store is nil or holds nothing usable.
func ResolveCalibration(store CalibrationStore) models.CalibrationConfig {
	if store != nil {
		if cfg, ok := store.LoadCalibration(); ok {
			return cfg
		}
	}
	logger.Debug("using default calibration")
	return models.DefaultCalibration()
}

// EncodeCalibration validates cfg and serializes it for storage.
func EncodeCalibration(cfg models.CalibrationConfig) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to save invalid calibration: %w", err)
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode calibration: %w", err)
	}
	return data, nil
}

// DecodeCalibration parses stored calibration JSON. Malformed or invalid
// data is logged and reported as not ok.
func DecodeCalibration(data []byte, source string) (models.CalibrationConfig, bool) {
	var cfg models.CalibrationConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		logger.Warn("stored calibration is malformed, ignoring it", "source", source, "error", err)
		return models.CalibrationConfig{}, false
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("stored calibration is invalid, ignoring it", "source", source, "error", err)
		return models.CalibrationConfig{}, false
	}
	return cfg, true
}
