package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/logsheet/internal/config"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Initialized logsheet storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.ConfigDir == "" {
		return nil
	}
	path := filepath.Join(ctx.ConfigDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := config.Save(path, ctx.Config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(ctx.out(), "Wrote default config to: %s\n", path)
	return nil
}
