package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/julianstephens/logsheet/internal/config"
	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/render"
	"github.com/julianstephens/logsheet/internal/storage"
)

type Context struct {
	Store     storage.Provider
	Config    config.Config
	ConfigDir string
	// Out receives command output; nil means stdout.
	Out io.Writer
	// In answers confirmation prompts; nil means stdin.
	In io.Reader
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Renderer builds a renderer from the configured style.
func (c *Context) Renderer() (*render.Renderer, error) {
	style, err := c.Config.Style.RenderStyle()
	if err != nil {
		return nil, err
	}
	return render.New(style), nil
}

// TemplatePath picks the flag value, then the config file, then the template
// the stored calibration was made against.
func (c *Context) TemplatePath(override string) string {
	if override != "" {
		return config.ExpandPath(override)
	}
	if c.Config.Template != "" {
		return config.ExpandPath(c.Config.Template)
	}
	if c.Store != nil {
		if path, err := c.Store.GetSetting(constants.TemplateKey); err == nil {
			return path
		}
	}
	return ""
}

// OutputDir picks the flag value or the configured directory.
func (c *Context) OutputDir(override string) string {
	if override != "" {
		return config.ExpandPath(override)
	}
	return config.ExpandPath(c.Config.OutputDir)
}

// templateSize waits briefly for the template and reports its size, or
// fallback when it cannot be decoded.
func templateSize(ctx context.Context, asset *render.Asset, fallback models.ImageSize) models.ImageSize {
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	img, err := asset.Wait(waitCtx)
	if err != nil {
		if fallback.Empty() {
			return models.DefaultCalibration().ImageSize
		}
		return fallback
	}
	b := img.Bounds()
	return models.ImageSize{Width: b.Dx(), Height: b.Dy()}
}

// Template starts loading the template image. With no template configured
// renders fall back to a blank sheet.
func (c *Context) Template(override string) *render.Asset {
	path := c.TemplatePath(override)
	if path == "" {
		return render.FailedAsset(errors.New("no template configured"))
	}
	return render.LoadAsset(path)
}
