// Package config loads the user's logsheet.yaml. Keys missing from the file
// keep their defaults.
package config

import (
	"errors"
	"image/color"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/logsheet/internal/canvas"
	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/render"
)

// Config is the on-disk configuration.
type Config struct {
	Template  string      `yaml:"template"`   // template image the sheets are drawn on
	OutputDir string      `yaml:"output_dir"` // where rendered PNGs go
	Store     string      `yaml:"store"`      // SQLite file, or a .json file for the JSON store
	Debug     bool        `yaml:"debug"`
	LogLevel  string      `yaml:"log_level"`
	Style     StyleConfig `yaml:"style"`
}

// StyleConfig mirrors render.Style with hex colors.
type StyleConfig struct {
	LineColor   string  `yaml:"line_color"`
	LineWidth   float64 `yaml:"line_width"`
	DotColor    string  `yaml:"dot_color"`
	DotRadius   float64 `yaml:"dot_radius"`
	RemarkColor string  `yaml:"remark_color"`
	RemarkAngle float64 `yaml:"remark_angle"`
	LabelColor  string  `yaml:"label_color"`
	ShowTotals  bool    `yaml:"show_totals"`
}

func Default() Config {
	return Config{
		OutputDir: constants.DefaultOutputDir,
		Store:     constants.DefaultStorePath,
		LogLevel:  "info",
		Style: StyleConfig{
			LineColor:   "#1565c0",
			LineWidth:   3,
			DotColor:    "#c62828",
			DotRadius:   4,
			RemarkColor: "#212121",
			RemarkAngle: 45,
			LabelColor:  "#000000",
			ShowTotals:  true,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := cfg.Style.RenderStyle(); err != nil {
		return Default(), fmt.Errorf("invalid style in %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(path string, cfg Config) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// RenderStyle converts the YAML style onto the renderer defaults.
func (s StyleConfig) RenderStyle() (render.Style, error) {
	style := render.DefaultStyle()

	var err error
	if style.LineColor, err = parseOr(s.LineColor, style.LineColor); err != nil {
		return style, fmt.Errorf("line_color: %w", err)
	}
	if style.DotColor, err = parseOr(s.DotColor, style.DotColor); err != nil {
		return style, fmt.Errorf("dot_color: %w", err)
	}
	if style.RemarkColor, err = parseOr(s.RemarkColor, style.RemarkColor); err != nil {
		return style, fmt.Errorf("remark_color: %w", err)
	}
	if style.LabelColor, err = parseOr(s.LabelColor, style.LabelColor); err != nil {
		return style, fmt.Errorf("label_color: %w", err)
	}
	style.TotalsColor = style.LineColor

	if s.LineWidth > 0 {
		style.LineWidth = s.LineWidth
	}
	if s.DotRadius > 0 {
		style.DotRadius = s.DotRadius
	}
	style.RemarkAngle = s.RemarkAngle
	style.ShowTotals = s.ShowTotals
	return style, nil
}

func parseOr(hex string, fallback color.RGBA) (color.RGBA, error) {
	if strings.TrimSpace(hex) == "" {
		return fallback, nil
	}
	return canvas.ParseHexColor(hex)
}
