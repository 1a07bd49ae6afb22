// SPDX-License-Identifier: MIT

// Package cli is the cobra command tree of the eeio binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/eeio/internal/config"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/internal/metrics"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "eeio.yaml"

type cliContextKey struct{}

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	MetricsFile  string
}

// CLIContext carries the initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Metrics      *metrics.Metrics
	OutputFormat string
}

// Close writes the metrics textfile, if one is configured, and flushes the
// logger.
func (c *CLIContext) Close() error {
	var err error
	if c.Config != nil && c.Config.Metrics.Textfile != "" {
		err = c.Metrics.WriteTextfile(c.Config.Metrics.Textfile)
	}
	// stderr sync errors are not actionable
	_ = c.Logger.Sync()
	return err
}

// NewRootCommand creates the root command with its global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "eeio",
		Short: "Environmentally extended input-output models",
		Long: "eeio derives direct requirement coefficients from make and use tables,\n" +
			"computes life cycle inventory and impact results of a final demand,\n" +
			"and exports model matrices with data quality indicators.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./"+defaultConfigFile+" if present)")
	pf.StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "table", "output format (table, json)")
	pf.StringVar(&opts.MetricsFile, "metrics-file", "", "write prometheus metrics to this textfile")

	cmd.AddCommand(
		newCoefficientsCmd(),
		newCalculateCmd(),
		newExportCmd(),
		newValidateCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch opts.OutputFormat {
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format %q; expected table|json", opts.OutputFormat)
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.MetricsFile != "" {
		cfg.Metrics.Textfile = opts.MetricsFile
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Metrics:      metrics.New(),
		OutputFormat: opts.OutputFormat,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return config.Load(defaultConfigFile)
	}
	return config.LoadFromEnv()
}

// GetCLIContext extracts the CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	if cmd == nil || cmd.Context() == nil {
		return nil, errors.New("cli: command context is nil")
	}
	cliCtx, ok := cmd.Context().Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New("cli: CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute runs the command tree with os.Args.
func Execute() error {
	return run(NewRootCommand())
}

func run(root *cobra.Command) error {
	cmd, err := root.ExecuteC()
	if cliCtx, cerr := GetCLIContext(cmd); cerr == nil {
		if ferr := cliCtx.Close(); ferr != nil && err == nil {
			err = ferr
		}
	}
	if err != nil {
		PrintError(root, err)
	}
	return err
}
