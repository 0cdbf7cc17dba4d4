package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pq "github.com/lib/pq"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/migration"
	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/storage"
	"github.com/julianstephens/logsheet/migrations"
)

type Store struct {
	connStr string
	db      *sql.DB
}

func New(connStr string) *Store {
	return &Store{connStr: withSearchPath(connStr)}
}

func (s *Store) connect() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(s.connStr, "sslmode") {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}
	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(constants.AppName)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.ApplyMigrations(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.connect(); err != nil {
		return err
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	fsys, err := migrations.Postgres()
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, fsys, migration.DialectPostgres), nil
}

func (s *Store) SchemaVersion() (int, error) {
	if s.db == nil {
		return 0, storage.ErrNotLoaded
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.GetCurrentVersion()
}

// LatestSchemaVersion is the newest migration shipped with this build.
func (s *Store) LatestSchemaVersion() (int, error) {
	if s.db == nil {
		return 0, storage.ErrNotLoaded
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.GetLatestVersion()
}

// GetConfigPath returns a non-sensitive identifier instead of the connection string.
func (s *Store) GetConfigPath() string {
	return "postgresql"
}

func (s *Store) LoadCalibration() (models.CalibrationConfig, bool) {
	if s.db == nil {
		return models.CalibrationConfig{}, false
	}
	var raw string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = $1", constants.CalibrationKey).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Warn("failed to read calibration", "store", "postgresql", "error", err)
		}
		return models.CalibrationConfig{}, false
	}
	return storage.DecodeCalibration([]byte(raw), "postgresql")
}

func (s *Store) SaveCalibration(cfg models.CalibrationConfig) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	data, err := storage.EncodeCalibration(cfg)
	if err != nil {
		return err
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
		"INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		constants.CalibrationKey, string(data),
	); err != nil {
		return fmt.Errorf("failed to save calibration: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO calibrations (id, created_at, config, template) VALUES ($1, $2, $3, $4)",
		uuid.New(), time.Now().UTC(), string(data), template,
	); err != nil {
		return fmt.Errorf("failed to record calibration history: %w", err)
	}
	return tx.Commit()
}

func (s *Store) ResetCalibration() error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	_, err := s.db.Exec("DELETE FROM settings WHERE key = $1", constants.CalibrationKey)
	return err
}

func (s *Store) GetCalibrationHistory(limit int) ([]models.CalibrationRecord, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	query := "SELECT id, created_at, config FROM calibrations ORDER BY created_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CalibrationRecord
	for rows.Next() {
		var (
			id        string
			createdAt time.Time
			raw       string
		)
		if err := rows.Scan(&id, &createdAt, &raw); err != nil {
			return nil, err
		}
		if cfg, ok := storage.DecodeCalibration([]byte(raw), "postgresql"); ok {
			records = append(records, models.CalibrationRecord{ID: id, CreatedAt: createdAt, Config: cfg})
		}
	}
	return records, rows.Err()
}

func (s *Store) GetSetting(key string) (string, error) {
	if s.db == nil {
		return "", storage.ErrNotLoaded
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("setting %q: %w", key, storage.ErrNotFound)
	}
	return value, err
}

func (s *Store) SetSetting(key, value string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		key, value,
	)
	return err
}
