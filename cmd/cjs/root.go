package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stackb/cjs/pkg/config"
	"github.com/stackb/cjs/pkg/require"
)

// app carries the settings shared by every subcommand.
type app struct {
	configFile string
	libs       []string
	engine     string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
	stderr io.Writer
}

func newRootCommand() *cobra.Command {
	a := &app{stderr: os.Stderr}

	root := &cobra.Command{
		Use:          "cjs",
		Short:        "Resolve, load and run CommonJS-style modules",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, toml or json); defaults to ./.cjs.*")
	flags.StringSliceVar(&a.libs, "lib", nil, "library path searched for bare specifiers (repeatable)")
	flags.StringVar(&a.engine, "engine", "", "script engine: js or starlark")
	flags.StringVar(&a.logLevel, "log_level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newRunCommand(a), newGraphCommand(a))
	return root
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if len(a.libs) > 0 {
		cfg.LibraryPaths = append(cfg.LibraryPaths, a.libs...)
	}
	if a.engine != "" {
		cfg.Engine = a.engine
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.stderr = cmd.ErrOrStderr()
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

func (a *app) loaderOptions() ([]require.Option, error) {
	opts, err := a.cfg.LoaderOptions()
	if err != nil {
		return nil, fmt.Errorf("configuring loader: %w", err)
	}
	return append(opts, require.WithLogger(a.logger)), nil
}
