package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/valcheck/pkg/analysis/report"
	"mercator-hq/valcheck/pkg/cli"
	"mercator-hq/valcheck/pkg/config"
	"mercator-hq/valcheck/pkg/telemetry/metrics"
)

type analyzeOptions struct {
	format          string
	color           string
	minSeverity     string
	strict          bool
	includeTree     bool
	output          string
	progress        bool
	concurrency     int
	metricsTextfile string
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [files or directories...]",
		Short: "Analyze validation configurations",
		Long: `Analyze validation configuration files and report their diagnostics.

Directories are searched recursively for files with a configured extension
(.yaml, .yml and .toml by default). Every file is analyzed against every
configured culture.

Exit codes:
  0  no failing diagnostics
  1  errors were found (or warnings, with --strict)
  2  a file could not be loaded

Examples:
  # Analyze a single file
  valcheck analyze signup.yaml

  # Analyze a directory, failing on warnings
  valcheck analyze --strict configs/

  # SARIF for code scanning
  valcheck analyze --format sarif -o valcheck.sarif configs/

  # JSON including the raw diagnostic tree
  valcheck analyze --format json --include-tree signup.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "", "output format: text, json, sarif")
	flags.StringVar(&opts.color, "color", "", "colorize text output: auto, always, never")
	flags.StringVar(&opts.minSeverity, "min-severity", "", "lowest severity to report: info, warning, error")
	flags.BoolVar(&opts.strict, "strict", false, "treat warnings as errors")
	flags.BoolVar(&opts.includeTree, "include-tree", false, "attach the raw diagnostic tree to JSON output")
	flags.StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr")
	flags.IntVarP(&opts.concurrency, "concurrency", "j", 0, "files analyzed in parallel (default GOMAXPROCS)")
	flags.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")

	return cmd
}

// apply overrides the tool configuration with explicitly set flags.
func (o *analyzeOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("color") {
		cfg.Output.Color = o.color
	}
	if flags.Changed("min-severity") {
		cfg.Output.MinSeverity = o.minSeverity
	}
	if flags.Changed("strict") {
		cfg.Output.Strict = o.strict
	}
	if flags.Changed("include-tree") {
		cfg.Output.IncludeTree = o.includeTree
	}
	if flags.Changed("metrics-textfile") {
		cfg.Telemetry.Metrics.Enabled = o.metricsTextfile != ""
		cfg.Telemetry.Metrics.TextfilePath = o.metricsTextfile
	}
	return config.Validate(cfg)
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	if err := opts.apply(cmd, a.cfg); err != nil {
		return cli.NewCommandError("analyze", err)
	}
	format, err := report.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return cli.NewCommandError("analyze", err)
	}

	files, err := cli.CollectFiles(args, a.cfg.Watch.Extensions)
	if err != nil {
		return cli.NewCommandError("analyze", err)
	}

	var collector *metrics.Collector
	if a.cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&a.cfg.Telemetry.Metrics, nil)
	}
	runner, err := cli.NewRunner(a.cfg, a.logger, collector)
	if err != nil {
		return cli.NewCommandError("analyze", err)
	}
	runner.Concurrency = opts.concurrency

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	var progress cli.ProgressReporter = cli.NoProgress{}
	if opts.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
	}

	a.logger.Info("Analyzing configurations", "files", len(files), "cultures", a.cfg.Analysis.CultureIDs())
	results, err := runner.AnalyzeFiles(ctx, files, progress)
	if err != nil {
		return cli.NewCommandError("analyze", err)
	}
	printLoadErrors(cmd.ErrOrStderr(), results)

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return cli.NewCommandError("analyze", err)
		}
		defer f.Close()
		out = f
	}

	if err := runner.Render(out, format, useColor(a.cfg.Output.Color, out), Version, results); err != nil {
		return cli.NewCommandError("analyze", fmt.Errorf("render report: %w", err))
	}
	if err := collector.WriteTextfile(a.cfg.Telemetry.Metrics.TextfilePath); err != nil {
		a.logger.Warn("Failed to write metrics", "error", err)
	}

	return runOutcome("analyze", results, a.cfg.Output.Strict)
}

// printLoadErrors reports files that could not be parsed or analyzed.
func printLoadErrors(w io.Writer, results []cli.FileResult) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s: %v\n", r.Path, r.Err)
		}
	}
}

// runOutcome turns per-file results into the command's error.
func runOutcome(command string, results []cli.FileResult, strict bool) error {
	if loadErrors := countLoadErrors(results); loadErrors > 0 {
		return cli.NewCommandError(command, fmt.Errorf("%d of %d file(s) could not be analyzed", loadErrors, len(results)))
	}
	for _, r := range results {
		if r.Failed(strict) {
			return cli.NewFindingsError(command)
		}
	}
	return nil
}
