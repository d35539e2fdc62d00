package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mercator-hq/valcheck/pkg/cli"
	"mercator-hq/valcheck/pkg/config"
	"mercator-hq/valcheck/pkg/telemetry/logging"
)

// skipConfigAnnotation marks commands that run without loading configuration.
const skipConfigAnnotation = "valcheck/skip-config"

// app holds the global flags and the runtime they produce.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string
	verbose   bool

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "valcheck",
		Short: "valcheck - static analysis for validation configurations",
		Long: `valcheck analyzes declarative validation configurations and reports
problems before they reach production:
  - Unknown or misspelled data types and lookup keys
  - Lookup keys with no formatter, parser, converter or comparer per culture
  - Missing localized texts and unknown message tokens
  - Malformed, duplicated or too deeply nested conditions

Configuration files may be YAML or TOML.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", os.Getenv("VALCHECK_CONFIG"), "tool configuration file (defaults apply when empty)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text, json")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logging)")

	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newAnalyzeCmd(a),
		newQueryCmd(a),
		newWatchCmd(a),
		newConditionsCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
		newCompletionCmd(root),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, cli.ErrFindings) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return cli.ExitCode(err)
}

// load reads the tool configuration, applies logging flags and builds the
// logger shared by every command.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfigAnnotation] == "true" {
		return nil
	}

	cfg, err := config.LoadConfigWithEnvOverrides(a.cfgFile)
	if err != nil {
		return cli.NewCommandError(cmd.Name(), err)
	}

	if a.logLevel != "" {
		cfg.Telemetry.Logging.Level = a.logLevel
	}
	if a.verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if a.logFormat != "" {
		cfg.Telemetry.Logging.Format = a.logFormat
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return cli.NewCommandError(cmd.Name(), err)
	}

	a.cfg = cfg
	a.logger = logger
	logger.Debug("Configuration loaded", "path", a.cfgFile, "cultures", cfg.Analysis.CultureIDs())
	return nil
}

// useColor resolves a color mode for output written to w.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return w == os.Stdout && !color.NoColor
	}
}
