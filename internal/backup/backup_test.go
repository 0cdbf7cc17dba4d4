package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/logsheet/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "logsheet.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
		`INSERT INTO settings (key, value) VALUES ('calibration_config', '{"gridStartX":105}')`,
		`INSERT INTO settings (key, value) VALUES ('template', 'template.png')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return dbPath
}

func countSettings(t *testing.T, path string) int {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM settings").Scan(&count); err != nil {
		t.Fatalf("failed to query %s: %v", path, err)
	}
	return count
}

// fixedClock advances one minute per call so every backup gets its own name.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func TestCreateBackup(t *testing.T) {
	mgr := NewManager(setupTestDB(t))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(backupPath), mgr.GetBackupDir())
	}
	if got := countSettings(t, backupPath); got != 2 {
		t.Errorf("expected 2 rows in backup, got %d", got)
	}
}

func TestCreateBackupWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))

	if _, err := mgr.CreateBackup(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
}

func TestBackupRotation(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	mgr.now = fixedClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backup %d is newer than backup %d", i, i-1)
		}
	}

	// the five oldest were pruned
	oldest := time.Date(2026, 3, 1, 8, 5, 0, 0, time.UTC)
	if !backups[len(backups)-1].Timestamp.Equal(oldest) {
		t.Errorf("oldest kept backup at %v, want %v", backups[len(backups)-1].Timestamp, oldest)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	stamp := time.Date(2026, 3, 1, 8, 0, 30, 0, time.UTC)
	mgr.now = func() time.Time { return stamp }

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 4 {
		t.Errorf("expected 4 backups, got %d", len(backups))
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{"logsheet-20260301-0800.db", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), true},
		{"logsheet-20260301-080030.db", time.Date(2026, 3, 1, 8, 0, 30, 0, time.UTC), true},
		{"logsheet-20260301-080030-2.db", time.Date(2026, 3, 1, 8, 0, 30, 0, time.UTC), true},
		{"otherapp-20260301-0800.db", time.Time{}, false},
		{"logsheet-yesterday.db", time.Time{}, false},
		{"logsheet-20260301-0800.sqlite", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseBackupName(tt.name)
			if ok != tt.ok || !got.Equal(tt.want) {
				t.Errorf("parseBackupName(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestListBackupsSkipsForeignFiles(t *testing.T) {
	mgr := NewManager(setupTestDB(t))

	if backups, err := mgr.ListBackups(); err != nil || len(backups) != 0 {
		t.Fatalf("expected no backups, got %v, %v", backups, err)
	}
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup, got %d", len(backups))
	}

	latest, ok, err := mgr.Latest()
	if err != nil || !ok || latest.Path != backups[0].Path {
		t.Errorf("Latest() = %v, %v, %v", latest, ok, err)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("DELETE FROM settings"); err != nil {
		t.Fatal(err)
	}
	db.Close()
	if got := countSettings(t, dbPath); got != 0 {
		t.Fatalf("expected empty settings before restore, got %d", got)
	}

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := countSettings(t, dbPath); got != 2 {
		t.Errorf("expected 2 rows after restore, got %d", got)
	}

	// the emptied database was saved before being replaced
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected a pre-restore backup, got %d backups", len(backups))
	}
	if got := countSettings(t, backups[0].Path); got != 0 {
		t.Errorf("pre-restore backup has %d rows, want 0", got)
	}
}

func TestRestoreBackupRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(setupTestDB(t))

	if err := mgr.RestoreBackup(filepath.Join(dir, "missing.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	corrupt := filepath.Join(dir, "corrupt.db")
	if err := os.WriteFile(corrupt, []byte("this is not a sqlite database"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := mgr.RestoreBackup(corrupt); err == nil {
		t.Error("expected error for corrupt backup")
	}
	if got := countSettings(t, mgr.DatabasePath()); got != 2 {
		t.Errorf("database changed after a rejected restore: %d rows", got)
	}
}
