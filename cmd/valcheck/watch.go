package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/valcheck/pkg/analysis/report"
	"mercator-hq/valcheck/pkg/cli"
	"mercator-hq/valcheck/pkg/telemetry/health"
	"mercator-hq/valcheck/pkg/telemetry/logging"
	"mercator-hq/valcheck/pkg/telemetry/metrics"
	"mercator-hq/valcheck/pkg/watch"
)

type watchOptions struct {
	format   string
	listen   string
	debounce time.Duration
	strict   bool
}

func newWatchCmd(a *app) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [files or directories...]",
		Short: "Re-analyze configurations whenever they change",
		Long: `Analyze configurations, then keep watching them and re-analyze every
changed file after a quiet period.

With --listen, an HTTP server exposes:
  /metrics  Prometheus metrics
  /health   liveness probe
  /ready    readiness probe, failing while any watched file fails analysis
  /version  build information

Examples:
  valcheck watch configs/
  valcheck watch --listen :9464 --debounce 1s configs/ shared.toml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "", "output format: text, json, sarif")
	flags.StringVar(&opts.listen, "listen", "", "address serving metrics and health probes")
	flags.DurationVar(&opts.debounce, "debounce", 0, "quiet period before re-analyzing")
	flags.BoolVar(&opts.strict, "strict", false, "treat warnings as errors for readiness")

	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, args []string, opts *watchOptions) error {
	cfg := a.cfg
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = opts.format
	}
	if cmd.Flags().Changed("debounce") {
		cfg.Watch.Debounce = opts.debounce
	}
	if cmd.Flags().Changed("strict") {
		cfg.Output.Strict = opts.strict
	}
	if opts.listen != "" {
		cfg.Telemetry.Metrics.ListenAddress = opts.listen
	}
	if cfg.Telemetry.Metrics.ListenAddress != "" {
		cfg.Telemetry.Metrics.Enabled = true
	}
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	files, err := cli.CollectFiles(args, cfg.Watch.Extensions)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}
	runner, err := cli.NewRunner(cfg, a.logger, collector)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	s := &watchSession{
		runner:   runner,
		logger:   a.logger,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		format:   format,
		color:    useColor(cfg.Output.Color, cmd.OutOrStdout()),
		strict:   cfg.Output.Strict,
		textfile: cfg.Telemetry.Metrics.TextfilePath,
		metrics:  collector,
		failing:  make(map[string]string),
	}

	if addr := cfg.Telemetry.Metrics.ListenAddress; addr != "" {
		checker := health.New(0)
		checker.RegisterCheck("analysis", s.Ready)

		mux := http.NewServeMux()
		health.Register(mux, checker, Version, GitCommit, BuildDate)
		mux.Handle("/metrics", collector.Handler())

		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("Telemetry server failed", "address", addr, "error", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		a.logger.Info("Serving telemetry", "address", addr)
	}

	s.analyze(ctx, files)

	w, err := watch.New(watch.Config{
		Paths:      args,
		Debounce:   cfg.Watch.Debounce,
		Extensions: cfg.Watch.Extensions,
		SkipHidden: true,
	}, a.logger.Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	if err := w.Watch(ctx, func(paths []string) { s.analyze(ctx, paths) }); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// watchSession re-analyzes changed files and remembers which ones fail.
type watchSession struct {
	runner   *cli.Runner
	logger   *logging.Logger
	out      io.Writer
	errOut   io.Writer
	format   report.Format
	color    bool
	strict   bool
	textfile string
	metrics  *metrics.Collector

	mu      sync.Mutex
	failing map[string]string
}

// analyze runs one batch. Files that no longer exist are forgotten.
func (s *watchSession) analyze(ctx context.Context, paths []string) {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			s.forget(p)
			s.logger.Info("Configuration removed", "path", p)
			continue
		}
		existing = append(existing, p)
	}
	if len(existing) == 0 {
		return
	}

	results, err := s.runner.AnalyzeFiles(ctx, existing, nil)
	if err != nil {
		s.logger.Warn("Analysis interrupted", "error", err)
		return
	}
	s.record(results)

	printLoadErrors(s.errOut, results)
	if err := s.runner.Render(s.out, s.format, s.color, Version, results); err != nil {
		s.logger.Error("Failed to render report", "error", err)
	}
	if err := s.metrics.WriteTextfile(s.textfile); err != nil {
		s.logger.Warn("Failed to write metrics", "error", err)
	}
}

func (s *watchSession) record(results []cli.FileResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range results {
		switch {
		case r.Err != nil:
			s.failing[r.Path] = r.Err.Error()
		case r.Failed(s.strict):
			s.failing[r.Path] = fmt.Sprintf("%d error(s), %d warning(s)", r.Report.Summary.Errors, r.Report.Summary.Warnings)
		default:
			delete(s.failing, r.Path)
		}
	}
}

func (s *watchSession) forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failing, path)
}

// Ready fails while any watched file fails analysis.
func (s *watchSession) Ready(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.failing) == 0 {
		return nil
	}
	paths := make([]string, 0, len(s.failing))
	for p := range s.failing {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return fmt.Errorf("%d file(s) failing: %s", len(paths), strings.Join(paths, ", "))
}
