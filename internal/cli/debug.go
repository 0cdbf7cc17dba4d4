package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/storage"
	"github.com/julianstephens/logsheet/internal/timeline"
)

type DebugCmd struct {
	DBPath          DebugDBPathCmd          `cmd:"" name:"db-path" help:"Show store location."`
	DumpDay         DebugDumpDayCmd         `cmd:"" help:"Dump the gap-filled segments of one day as JSON."`
	DumpCalibration DebugDumpCalibrationCmd `cmd:"" help:"Dump the active calibration as JSON."`
}

func printJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(ctx.out(), string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpDayCmd struct {
	Trip string `arg:"" help:"Trip JSON file." type:"existingfile"`
	Day  int    `arg:"" help:"Day to dump (1-based)."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *Context) error {
	trip, err := models.LoadTrip(cmd.Trip)
	if err != nil {
		return err
	}
	if n := models.NumDays(trip.Logs); cmd.Day < 1 || cmd.Day > n {
		return fmt.Errorf("day %d out of range, trip spans %d day(s)", cmd.Day, n)
	}
	return printJSON(ctx, timeline.DaySegments(trip.Logs, cmd.Day-1))
}

type DebugDumpCalibrationCmd struct{}

func (cmd *DebugDumpCalibrationCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	_, stored := ctx.Store.LoadCalibration()
	return printJSON(ctx, struct {
		Stored bool                     `json:"stored"`
		Config models.CalibrationConfig `json:"config"`
	}{stored, storage.ResolveCalibration(ctx.Store)})
}
