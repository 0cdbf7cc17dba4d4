package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/logsheet/internal/canvas"
	"github.com/julianstephens/logsheet/internal/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store != constants.DefaultStorePath {
		t.Errorf("Store = %q", cfg.Store)
	}
	if !cfg.Style.ShowTotals || cfg.Style.RemarkAngle != 45 {
		t.Errorf("unexpected default style %+v", cfg.Style)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
template: /srv/templates/blank-log.png
style:
  line_color: "#000"
  remark_angle: 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Template != "/srv/templates/blank-log.png" {
		t.Errorf("Template = %q", cfg.Template)
	}
	if cfg.OutputDir != constants.DefaultOutputDir {
		t.Errorf("OutputDir should keep its default, got %q", cfg.OutputDir)
	}
	if cfg.Style.DotColor != "#c62828" || cfg.Style.LineWidth != 3 {
		t.Errorf("unset style keys lost their defaults: %+v", cfg.Style)
	}

	style, err := cfg.Style.RenderStyle()
	if err != nil {
		t.Fatal(err)
	}
	if style.LineColor != canvas.MustParseHexColor("#000000") {
		t.Errorf("LineColor = %v", style.LineColor)
	}
	if style.RemarkAngle != 30 {
		t.Errorf("RemarkAngle = %v", style.RemarkAngle)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "style: [", "parse"},
		{"bad color", "style:\n  dot_color: chartreuse\n", "dot_color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if cfg.Style.LineColor != Default().Style.LineColor {
				t.Error("failed load should return defaults")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Debug = true
	cfg.Style.DotRadius = 6

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Debug || got.Style.DotRadius != 6 {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/.config/logsheet", filepath.Join(home, ".config/logsheet")},
		{"~", home},
		{"/tmp/x", "/tmp/x"},
		{"relative/~", "relative/~"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
