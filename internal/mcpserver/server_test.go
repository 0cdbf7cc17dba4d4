package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/render"
)

const tripJSON = `{"logs":[
  {"status":"ON_DUTY","start":0,"end":1,"remarks":"Pre-trip inspection"},
  {"status":"DRIVING","start":1,"end":11},
  {"status":"OFF_DUTY","start":11,"end":21},
  {"status":"DRIVING","start":21,"end":30,"remarks":"Fuel stop"}
]}`

func newTools() *Tools {
	return NewTools(render.New(render.DefaultStyle()), render.FailedAsset(errors.New("no template")), nil)
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestRenderLogSheetImage(t *testing.T) {
	res, err := newTools().RenderLogSheet(context.Background(), request(map[string]any{"trip": tripJSON, "day": 2.0}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %v", res.Content)
	}

	var img *mcp.ImageContent
	for _, c := range res.Content {
		if ic, ok := c.(mcp.ImageContent); ok {
			img = &ic
		}
	}
	if img == nil {
		t.Fatal("no image content")
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	want := models.DefaultCalibration().ImageSize
	if decoded.Bounds().Dx() != want.Width || decoded.Bounds().Dy() != want.Height {
		t.Errorf("bounds %v, want %dx%d", decoded.Bounds(), want.Width, want.Height)
	}
}

func TestRenderLogSheetOutDir(t *testing.T) {
	dir := t.TempDir()
	res, err := newTools().RenderLogSheet(context.Background(), request(map[string]any{"trip": tripJSON, "out_dir": dir}))
	if err != nil {
		t.Fatal(err)
	}

	paths := strings.Split(resultText(t, res), "\n")
	if len(paths) != 2 {
		t.Fatalf("expected 2 sheets, got %v", paths)
	}
	for _, name := range []string{"day-01.png", "day-02.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRenderLogSheetOutDirSingleDay(t *testing.T) {
	dir := t.TempDir()
	res, err := newTools().RenderLogSheet(context.Background(), request(map[string]any{"trip": tripJSON, "out_dir": dir, "day": 2.0}))
	if err != nil {
		t.Fatal(err)
	}

	if got := resultText(t, res); got != filepath.Join(dir, "day-02.png") {
		t.Errorf("paths = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "day-01.png")); !os.IsNotExist(err) {
		t.Error("day 1 should not be written")
	}
}

func TestDaySegmentsDefaultsToFirstDay(t *testing.T) {
	res, err := newTools().DaySegments(context.Background(), request(map[string]any{"trip": tripJSON}))
	if err != nil {
		t.Fatal(err)
	}
	var report DayReport
	if err := json.Unmarshal([]byte(resultText(t, res)), &report); err != nil {
		t.Fatal(err)
	}
	if report.Day != 1 || report.Segments[0].Status != models.StatusOnDuty {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestToolErrors(t *testing.T) {
	tools := newTools()
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing trip", map[string]any{}},
		{"bad json", map[string]any{"trip": "{"}},
		{"day out of range", map[string]any{"trip": tripJSON, "day": 5.0}},
		{"all days without out_dir", map[string]any{"trip": tripJSON, "day": 0.0}},
		{"fractional day", map[string]any{"trip": tripJSON, "day": 1.5}},
		{"trip too long", map[string]any{"trip": `[{"status":"DRIVING","start":0,"end":1e20}]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tools.RenderLogSheet(context.Background(), request(tt.args))
			if err != nil {
				t.Fatalf("unexpected Go error: %v", err)
			}
			if !res.IsError {
				t.Error("expected a tool error result")
			}
		})
	}
}

func TestDaySegments(t *testing.T) {
	res, err := newTools().DaySegments(context.Background(), request(map[string]any{"trip": tripJSON, "day": 2.0}))
	if err != nil {
		t.Fatal(err)
	}

	var report DayReport
	if err := json.Unmarshal([]byte(resultText(t, res)), &report); err != nil {
		t.Fatal(err)
	}
	if report.Day != 2 {
		t.Errorf("Day = %d", report.Day)
	}
	if len(report.Segments) != 2 {
		t.Fatalf("expected driving then gap, got %+v", report.Segments)
	}
	if report.Totals[models.StatusDriving] != 6 || report.Totals[models.StatusOffDuty] != 18 {
		t.Errorf("unexpected totals %v", report.Totals)
	}
}

func TestValidateTrip(t *testing.T) {
	res, err := newTools().ValidateTrip(context.Background(), request(map[string]any{
		"trip": `[{"status":"DRIVING","start":0,"end":5},{"status":"ON_DUTY","start":3,"end":6}]`,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, res); !strings.Contains(text, "overlaps") {
		t.Errorf("report should mention the overlap: %q", text)
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	if s := NewServer(newTools()); s == nil {
		t.Fatal("NewServer returned nil")
	}
}
