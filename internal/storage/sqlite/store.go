package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/logsheet/internal/backup"
	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/migration"
	"github.com/julianstephens/logsheet/migrations"
)

type Store struct {
	path    string
	db      *sql.DB
	backups *backup.Manager
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// WithBackups makes the store snapshot the database before an existing
// calibration is overwritten.
func (s *Store) WithBackups(mgr *backup.Manager) *Store {
	s.backups = mgr
	return s
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; the CLI and web host never need more
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
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
	fsys, err := migrations.SQLite()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, fsys, migration.DialectSQLite), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) SchemaVersion() (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("sqlite store not loaded")
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
		return 0, fmt.Errorf("sqlite store not loaded")
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.GetLatestVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB exposes the connection for tests and diagnostics.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
