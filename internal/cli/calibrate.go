package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/julianstephens/logsheet/internal/calibration"
	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/lock"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/render"
	"github.com/julianstephens/logsheet/internal/storage"
	"github.com/julianstephens/logsheet/internal/tui"
	"github.com/julianstephens/logsheet/internal/web"
)

type CalibrateCmd struct {
	Web     CalibrateWebCmd     `cmd:"" help:"Calibrate by clicking on the template in a browser." default:"1"`
	Manual  CalibrateManualCmd  `cmd:"" help:"Enter calibration pixel values in a form."`
	Show    CalibrateShowCmd    `cmd:"" help:"Show the active calibration."`
	Reset   CalibrateResetCmd   `cmd:"" help:"Delete the stored calibration and fall back to the default."`
	History CalibrateHistoryCmd `cmd:"" help:"List previously saved calibrations."`
}

// rememberTemplate records which template a calibration belongs to.
func rememberTemplate(ctx *Context, path string) {
	if path == "" {
		return
	}
	if err := ctx.Store.SetSetting(constants.TemplateKey, path); err != nil {
		logger.Warn("failed to remember template", "path", path, "error", err)
	}
}

type CalibrateWebCmd struct {
	Addr        string `help:"Address to serve the calibration page on." default:"127.0.0.1:8080"`
	Template    string `help:"Template image to calibrate against." type:"path"`
	KeepRunning bool   `help:"Keep serving after a calibration is saved."`
}

func (c *CalibrateWebCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	lk, err := lock.Acquire(filepath.Join(ctx.ConfigDir, constants.CalibrationLockfileName), c.Addr)
	if err != nil {
		return err
	}
	defer lk.Release()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := ctx.TemplatePath(c.Template)
	asset := ctx.Template(c.Template)
	size := templateSize(runCtx, asset, storage.ResolveCalibration(ctx.Store).ImageSize)
	rememberTemplate(ctx, path)

	srv := web.New(asset, ctx.Store, size)
	if !c.KeepRunning {
		go func() {
			select {
			case <-srv.Saved():
				// let the page receive its confirmation
				time.Sleep(500 * time.Millisecond)
				stop()
			case <-runCtx.Done():
			}
		}()
	}

	fmt.Fprintf(ctx.out(), "Open http://%s in a browser and click the points in order. Ctrl+C to stop.\n", c.Addr)
	if err := srv.Run(runCtx, c.Addr); err != nil {
		return err
	}
	if cfg, ok := ctx.Store.LoadCalibration(); ok {
		fmt.Fprintf(ctx.out(), "✓ Active calibration: grid %d..%d, remarks at y=%d\n", cfg.GridStartX, cfg.GridEndX, cfg.RemarksY)
	}
	return nil
}

type CalibrateManualCmd struct {
	Template string `help:"Template image the values were measured on; sets the stored image size." type:"path"`
}

func (c *CalibrateManualCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	current := storage.ResolveCalibration(ctx.Store)
	size := current.ImageSize
	path := ctx.TemplatePath(c.Template)
	if c.Template != "" {
		size = templateSize(context.Background(), ctx.Template(c.Template), size)
	}

	fm := tui.FormFromConfig(current)
	if err := tui.NewCalibrationForm(fm).Run(); err != nil {
		return err
	}

	cfg, err := fm.Config(size)
	if err != nil {
		return err
	}
	if err := ctx.Store.SaveCalibration(cfg); err != nil {
		return fmt.Errorf("failed to save calibration: %w", err)
	}
	rememberTemplate(ctx, path)

	fmt.Fprintln(ctx.out(), "✓ Calibration saved")
	return nil
}

type CalibrateShowCmd struct {
	Overlay  string `help:"Also write the calibration overlay drawn on the template to this PNG." type:"path"`
	Template string `help:"Template image for the overlay." type:"path"`
}

func (c *CalibrateShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cfg, stored := ctx.Store.LoadCalibration()
	if !stored {
		cfg = storage.ResolveCalibration(ctx.Store)
		fmt.Fprintln(ctx.out(), "No valid stored calibration, showing the default.")
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.out(), string(data))

	if c.Overlay == "" {
		return nil
	}
	img, err := calibration.RenderOverlay(context.Background(), ctx.Template(c.Template), calibration.SessionFromConfig(cfg))
	if err != nil {
		return err
	}
	if err := render.SavePNG(c.Overlay, img); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "✓ Overlay written to %s\n", c.Overlay)
	return nil
}

type CalibrateResetCmd struct{}

func (c *CalibrateResetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Store.ResetCalibration(); err != nil {
		return fmt.Errorf("failed to reset calibration: %w", err)
	}
	fmt.Fprintln(ctx.out(), "✓ Calibration reset, the default geometry is now in use")
	return nil
}

type CalibrateHistoryCmd struct {
	Limit int `help:"Number of entries to show (0 for all)." default:"10"`
}

func (c *CalibrateHistoryCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	records, err := ctx.Store.GetCalibrationHistory(c.Limit)
	if err != nil {
		return fmt.Errorf("failed to read calibration history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(ctx.out(), "No calibrations saved yet.")
		return nil
	}

	for _, rec := range records {
		cfg := rec.Config
		fmt.Fprintf(ctx.out(), "%s  %s  grid %d..%d  remarks y=%d  %dx%d\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.ID[:8],
			cfg.GridStartX, cfg.GridEndX, cfg.RemarksY,
			cfg.ImageSize.Width, cfg.ImageSize.Height,
		)
	}
	return nil
}
