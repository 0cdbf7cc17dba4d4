package cli

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/render"
	"github.com/julianstephens/logsheet/internal/storage"
)

type RenderCmd struct {
	Trip     string `help:"Trip JSON file (planner response or interval array)." required:"" type:"existingfile"`
	Day      int    `help:"Render only this day (1-based); 0 renders every day." default:"0"`
	Out      string `help:"Output directory (defaults to the configured output_dir)." type:"path"`
	Template string `help:"Template image to draw on." type:"path"`
}

func (c *RenderCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	trip, err := models.LoadTrip(c.Trip)
	if err != nil {
		return err
	}
	days := models.NumDays(trip.Logs)
	if c.Day < 0 || c.Day > days {
		return fmt.Errorf("day %d out of range, trip spans %d day(s)", c.Day, days)
	}

	renderer, err := ctx.Renderer()
	if err != nil {
		return err
	}
	asset := ctx.Template(c.Template)
	cfg := storage.ResolveCalibration(ctx.Store)
	outDir := ctx.OutputDir(c.Out)

	save := func(d int, img *image.RGBA) error {
		path := filepath.Join(outDir, render.DayFileName(d))
		if err := render.SavePNG(path, img); err != nil {
			return err
		}
		fmt.Fprintf(ctx.out(), "✓ Day %d: %s\n", d+1, path)
		return nil
	}

	if c.Day == 0 {
		return renderer.RenderTrip(context.Background(), asset, cfg, trip.Logs, save)
	}
	d := c.Day - 1
	img, err := renderer.RenderDay(context.Background(), asset, cfg, trip.Logs, d)
	if err != nil {
		return fmt.Errorf("failed to render day %d: %w", d+1, err)
	}
	return save(d, img)
}
