package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/logsheet/internal/cli"
	"github.com/julianstephens/logsheet/internal/config"
	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/errors"
	"github.com/julianstephens/logsheet/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	Store   string `help:"Calibration store: SQLite or JSON file path, PostgreSQL connection string, or 'keyring'. Credentials must NOT be embedded in connection strings; use 'logsheet keyring set' or LOGSHEET_DB_CONNECTION instead."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init      cli.InitCmd      `cmd:"" help:"Initialize logsheet storage and config."`
	Calibrate cli.CalibrateCmd `cmd:"" help:"Calibrate the log template geometry."`
	Render    cli.RenderCmd    `cmd:"" help:"Render a trip's daily log sheets as PNG."`
	Days      cli.DaysCmd      `cmd:"" help:"Show each day's duty status segments."`
	Validate  cli.ValidateCmd  `cmd:"" help:"Check a trip's intervals for problems."`
	Tui       cli.TuiCmd       `cmd:"" help:"Browse a trip's days interactively."`
	Mcp       cli.McpCmd       `cmd:"" help:"Serve log sheet tools over MCP on stdio."`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Backup    cli.BackupCmd    `cmd:"" help:"Manage calibration database backups."`
	Keyring   cli.KeyringCmd   `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Dev       cli.DebugCmd     `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Draw duty status log sheets from trip plans"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Warning(err))
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	configDir := filepath.Dir(config.ExpandPath(CLI.Config))
	level := cfg.LogLevel
	if cfg.Debug {
		level = ""
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir, Level: level}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	location := CLI.Store
	if location == "" {
		location = cfg.Store
	}
	store, err := cli.OpenStore(location)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:     store,
		Config:    cfg,
		ConfigDir: configDir,
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
