package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/logsheet/internal/backup"
	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/storage/sqlite"
)

// errSkipped marks a check that does not apply to the current store.
var errSkipped = errors.New("skipped")

type DoctorCmd struct {
	Template string `help:"Template image to check." type:"path"`
}

type versionedStore interface {
	SchemaVersion() (int, error)
	LatestSchemaVersion() (int, error)
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	out := ctx.out()
	fmt.Fprintln(out, "Running diagnostics...")
	fmt.Fprintln(out)

	hasError := false
	fail := func(name string, err error) {
		fmt.Fprintf(out, "❌ %s: FAIL\n", name)
		fmt.Fprintf(out, "   Error: %v\n", err)
		hasError = true
	}

	// Check 1: store reachable
	reachable := true
	if err := ctx.Store.Load(); err != nil {
		fail("Store reachable", err)
		reachable = false
	} else {
		fmt.Fprintln(out, "✓ Store reachable: OK")
	}

	if reachable {
		// Check 2: schema
		switch err := checkSchema(ctx); {
		case errors.Is(err, errSkipped):
			fmt.Fprintln(out, "⊘ Schema version: SKIPPED (store has no migrations)")
		case err != nil:
			fail("Schema version", err)
		default:
			fmt.Fprintln(out, "✓ Schema version: OK")
		}

		// Check 3: calibration
		if _, ok := ctx.Store.LoadCalibration(); ok {
			fmt.Fprintln(out, "✓ Stored calibration: OK")
		} else {
			fmt.Fprintln(out, "⚠ Stored calibration: WARNING")
			fmt.Fprintf(out, "   no valid calibration stored, the default is used; run '%s calibrate'\n", constants.AppName)
		}
	} else {
		fmt.Fprintln(out, "⊘ Schema version: SKIPPED (store not reachable)")
		fmt.Fprintln(out, "⊘ Stored calibration: SKIPPED (store not reachable)")
	}

	// Check 4: template
	if path := ctx.TemplatePath(cmd.Template); path == "" {
		fmt.Fprintln(out, "⚠ Template: WARNING")
		fmt.Fprintln(out, "   no template configured, sheets are drawn on a blank page")
	} else if err := checkTemplate(ctx, cmd.Template); err != nil {
		fail("Template", err)
	} else {
		fmt.Fprintln(out, "✓ Template: OK")
	}

	// Check 5: backups (warning only)
	switch err := checkBackupsPresent(ctx); {
	case errors.Is(err, errSkipped):
		fmt.Fprintln(out, "⊘ Backups present: SKIPPED (not a SQLite store)")
	case err != nil:
		fmt.Fprintln(out, "⚠ Backups present: WARNING")
		fmt.Fprintf(out, "   %v\n", err)
	default:
		fmt.Fprintln(out, "✓ Backups present: OK")
	}

	fmt.Fprintln(out)
	if hasError {
		fmt.Fprintln(out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Fprintln(out, "All diagnostics passed!")
	return nil
}

func checkSchema(ctx *Context) error {
	vs, ok := ctx.Store.(versionedStore)
	if !ok {
		return errSkipped
	}

	current, err := vs.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := vs.LatestSchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkTemplate(ctx *Context, override string) error {
	waitCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	img, err := ctx.Template(override).Wait(waitCtx)
	if err != nil {
		return err
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("template has no pixels")
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errSkipped
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

var _ versionedStore = (*sqlite.Store)(nil)
