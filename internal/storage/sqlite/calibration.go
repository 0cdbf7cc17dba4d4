package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/storage"
)

func (s *Store) LoadCalibration() (models.CalibrationConfig, bool) {
	if s.db == nil {
		return models.CalibrationConfig{}, false
	}

	var raw string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", constants.CalibrationKey).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Warn("failed to read calibration", "path", s.path, "error", err)
		}
		return models.CalibrationConfig{}, false
	}
	return storage.DecodeCalibration([]byte(raw), s.path)
}

// SaveCalibration replaces the active calibration and appends it to the
// history in one transaction.
func (s *Store) SaveCalibration(cfg models.CalibrationConfig) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	data, err := storage.EncodeCalibration(cfg)
	if err != nil {
		return err
	}

	if s.backups != nil {
		if _, ok := s.LoadCalibration(); ok {
			if _, err := s.backups.CreateBackup(); err != nil {
				logger.Warn("failed to back up before overwriting calibration", "error", err)
			}
		}
	}

	template, err := s.GetSetting(constants.TemplateKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		constants.CalibrationKey, string(data),
	); err != nil {
		return fmt.Errorf("failed to save calibration: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO calibrations (id, created_at, config, template) VALUES (?, ?, ?, ?)",
		uuid.NewString(), formatTimestamp(time.Now()), string(data), template,
	); err != nil {
		return fmt.Errorf("failed to record calibration history: %w", err)
	}

	return tx.Commit()
}

// timestampLayout keeps every fraction nine digits wide so created_at sorts
// lexically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func (s *Store) ResetCalibration() error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", constants.CalibrationKey)
	return err
}

func (s *Store) GetCalibrationHistory(limit int) ([]models.CalibrationRecord, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	query := "SELECT id, created_at, config FROM calibrations ORDER BY created_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CalibrationRecord
	for rows.Next() {
		var id, createdAt, raw string
		if err := rows.Scan(&id, &createdAt, &raw); err != nil {
			return nil, err
		}
		cfg, ok := storage.DecodeCalibration([]byte(raw), s.path)
		if !ok {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for %s: %w", id, err)
		}
		records = append(records, models.CalibrationRecord{ID: id, CreatedAt: ts, Config: cfg})
	}
	return records, rows.Err()
}
