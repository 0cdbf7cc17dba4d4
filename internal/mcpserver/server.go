// Package mcpserver exposes log sheet rendering as MCP tools over stdio.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/render"
	"github.com/julianstephens/logsheet/internal/storage"
	"github.com/julianstephens/logsheet/internal/timeline"
	"github.com/julianstephens/logsheet/internal/validation"
)

// Tools holds what the tool handlers need.
type Tools struct {
	renderer *render.Renderer
	asset    *render.Asset
	store    storage.CalibrationStore
}

func NewTools(renderer *render.Renderer, asset *render.Asset, store storage.CalibrationStore) *Tools {
	return &Tools{renderer: renderer, asset: asset, store: store}
}

// NewServer registers the tools on a fresh MCP server.
func NewServer(t *Tools) *server.MCPServer {
	s := server.NewMCPServer(constants.AppName, constants.Version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("render_log_sheet",
		mcp.WithDescription("Render one day of a trip's duty-status log onto the calibrated template. Returns a PNG, or writes every day to out_dir."),
		mcp.WithString("trip", mcp.Required(), mcp.Description("Trip JSON: a planner response with a logs array, or a bare array of {status,start,end,remarks}")),
		mcp.WithNumber("day", mcp.Description("Day to render, 1-based. 0 means every day and needs out_dir. Defaults to 1, or to every day when out_dir is set")),
		mcp.WithString("out_dir", mcp.Description("Write the selected days as day-NN.png into this directory instead of returning an image")),
	), t.RenderLogSheet)

	s.AddTool(mcp.NewTool("day_segments",
		mcp.WithDescription("Return the gap-filled status segments and per-status hour totals for one day of a trip."),
		mcp.WithString("trip", mcp.Required(), mcp.Description("Trip JSON")),
		mcp.WithNumber("day", mcp.Description("Day, 1-based (default 1)")),
	), t.DaySegments)

	s.AddTool(mcp.NewTool("validate_trip",
		mcp.WithDescription("Report malformed, overlapping, out-of-order or unknown-status intervals in a trip."),
		mcp.WithString("trip", mcp.Required(), mcp.Description("Trip JSON")),
	), t.ValidateTrip)

	return s
}

// ServeStdio runs the server on stdin/stdout. Logging must not use stdout.
func ServeStdio(t *Tools) error {
	logger.Info("serving MCP tools on stdio")
	return server.ServeStdio(NewServer(t))
}

func parseTripArg(req mcp.CallToolRequest) (models.Trip, error) {
	raw, err := req.RequireString("trip")
	if err != nil {
		return models.Trip{}, err
	}
	return models.ParseTrip([]byte(raw))
}

// allDays is returned by dayArg for day 0.
const allDays = -1

// dayArg reads the 1-based "day" argument and returns the zero-based day, or
// allDays when 0 is given and allowAll is set.
func dayArg(req mcp.CallToolRequest, trip models.Trip, def int, allowAll bool) (int, error) {
	n := models.NumDays(trip.Logs)
	day := req.GetFloat("day", float64(def))
	switch {
	case day == 0 && allowAll:
		return allDays, nil
	case day != math.Trunc(day) || day < 1 || day > float64(n):
		return 0, fmt.Errorf("day %v out of range, trip spans %d day(s)", day, n)
	}
	return int(day) - 1, nil
}

func (t *Tools) RenderLogSheet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trip, err := parseTripArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg := storage.ResolveCalibration(t.store)

	if outDir := req.GetString("out_dir", ""); outDir != "" {
		day, err := dayArg(req, trip, 0, true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var paths []string
		save := func(d int, img *image.RGBA) error {
			path := filepath.Join(outDir, render.DayFileName(d))
			if err := render.SavePNG(path, img); err != nil {
				return err
			}
			paths = append(paths, path)
			return nil
		}

		if day == allDays {
			err = t.renderer.RenderTrip(ctx, t.asset, cfg, trip.Logs, save)
		} else {
			var img *image.RGBA
			if img, err = t.renderer.RenderDay(ctx, t.asset, cfg, trip.Logs, day); err == nil {
				err = save(day, img)
			}
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
	}

	day, err := dayArg(req, trip, 1, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := t.renderer.RenderDay(ctx, t.asset, cfg, trip.Logs, day)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return mcp.NewToolResultImage(
		fmt.Sprintf("Day %d of %d", day+1, models.NumDays(trip.Logs)),
		base64.StdEncoding.EncodeToString(buf.Bytes()),
		"image/png",
	), nil
}

// DayReport is the day_segments result. Day is 1-based.
type DayReport struct {
	Day      int                           `json:"day"`
	Segments []models.DaySegment           `json:"segments"`
	Totals   map[models.DutyStatus]float64 `json:"totals"`
}

func (t *Tools) DaySegments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trip, err := parseTripArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, err := dayArg(req, trip, 1, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	segments := timeline.DaySegments(trip.Logs, day)
	data, err := json.MarshalIndent(DayReport{Day: day + 1, Segments: segments, Totals: timeline.Totals(segments)}, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (t *Tools) ValidateTrip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trip, err := parseTripArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := validation.New().ValidateIntervals(trip.Logs)
	return mcp.NewToolResultText(result.FormatReport()), nil
}
