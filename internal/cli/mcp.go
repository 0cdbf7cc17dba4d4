package cli

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/mcpserver"
)

type McpCmd struct {
	Template string `help:"Template image to draw on." type:"path"`
}

func (c *McpCmd) Run(ctx *Context) error {
	// stdout carries the protocol
	level := log.WarnLevel
	if ctx.Config.Debug {
		level = log.DebugLevel
	}
	logger.InitWriter(os.Stderr, level)

	if err := ctx.Store.Load(); err != nil {
		return err
	}
	renderer, err := ctx.Renderer()
	if err != nil {
		return err
	}
	return mcpserver.ServeStdio(mcpserver.NewTools(renderer, ctx.Template(c.Template), ctx.Store))
}
