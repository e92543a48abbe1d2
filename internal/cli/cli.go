// Package cli provides the command-line interface for agentsync.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/agentsync/internal/config"
	"github.com/klauern/agentsync/internal/logging"
	"github.com/klauern/agentsync/internal/syncerr"
	"github.com/klauern/agentsync/internal/ui"
	"github.com/klauern/agentsync/internal/util"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	return newApp().Run(ctx, args)
}

// Exit codes returned by ExitCode.
const (
	ExitOK = iota
	ExitFailure
	// ExitInvalidSource means the managed directory or the request was
	// rejected before anything was written.
	ExitInvalidSource
)

// ExitCode maps a Run error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch syncerr.KindOf(err) {
	case syncerr.KindParse, syncerr.KindNotFound, syncerr.KindValidation:
		return ExitInvalidSource
	default:
		return ExitFailure
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "agentsync",
		Usage:   "Generate AI coding tool configuration from one managed directory",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging, list unchanged files)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Emit logs as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the user config file",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger := configureLogging(cmd)
			cfg, err := loadConfig(cmd)
			if err != nil {
				return ctx, err
			}
			configureColors(cmd, cfg)
			return logging.NewContext(withConfig(ctx, cfg), logger), nil
		},
		Commands: []*cli.Command{
			versionCommand(),
			syncCommand(),
			targetsCommand(),
			configCommand(),
		},
	}
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the config loaded by the root command, or defaults
// when a command runs without it.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.Default()
}

// loadConfig reads the user config from --config or the default location.
// A --config file that does not exist yet yields the defaults so that
// "config init" can create it.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return config.Load()
	}
	if !util.Exists(path) {
		logging.Warn("config file not found, using defaults", logging.Path(path))
	}
	return config.LoadOrDefault(path)
}

// configureColors sets up color output based on CLI flags and config.
func configureColors(cmd *cli.Command, cfg *config.Config) {
	switch {
	case cmd.Bool("no-color"):
		ui.DisableColors()
	case cfg.Output.ColorMode() == config.ColorNever:
		ui.DisableColors()
	case cfg.Output.ColorMode() == config.ColorAlways:
		ui.EnableColors()
	default:
		ui.ConfigureColors(os.Stdout, false)
	}
}

// configureLogging installs the default logger for the run's flags and
// returns it for the command context.
func configureLogging(cmd *cli.Command) *slog.Logger {
	opts := logging.DefaultOptions()
	opts.Level = logging.LevelWarn
	opts.Output = cmd.Root().ErrWriter
	opts.JSON = cmd.Bool("log-json")

	if cmd.Bool("debug") {
		opts.Level = logging.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = logging.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logger.Debug("logging configured", slog.String("level", opts.Level.String()))

	return logger
}

// verbose reports whether unchanged files should be listed.
func verbose(cmd *cli.Command, cfg *config.Config) bool {
	return cmd.Bool("verbose") || cmd.Bool("debug") || cfg.Output.Verbose
}
