package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"mercator-hq/valcheck/pkg/analysis"
	"mercator-hq/valcheck/pkg/analysis/lookupkeys"
	"mercator-hq/valcheck/pkg/analysis/report"
	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/analysis/search"
	"mercator-hq/valcheck/pkg/config"
	"mercator-hq/valcheck/pkg/telemetry/logging"
	"mercator-hq/valcheck/pkg/telemetry/metrics"
	"mercator-hq/valcheck/pkg/vcl/parser"
)

// FileResult is the outcome of analyzing one configuration file. Exactly
// one of Report and Err is set.
type FileResult struct {
	Path   string
	Report *report.Report
	Err    error
}

// Failed reports whether the file fails the run.
func (r FileResult) Failed(strict bool) bool {
	return r.Err != nil || r.Report.Summary.Failed(strict)
}

// Runner loads, analyzes and reports configuration files.
type Runner struct {
	cfg      *config.Config
	parser   *parser.Parser
	analyzer *analysis.Analyzer
	metrics  *metrics.Collector
	logger   *logging.Logger

	// Concurrency bounds AnalyzeFiles. Zero means GOMAXPROCS.
	Concurrency int
	// Queries override the configured output queries when non-nil.
	Queries []report.Query
}

// NewRunner builds the analysis pipeline for cfg. collector may be nil.
func NewRunner(cfg *config.Config, logger *logging.Logger, collector *metrics.Collector) (*Runner, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	var observer lookupkeys.Observer
	if collector != nil {
		observer = collector
	}
	analyzer, err := cfg.Analysis.NewAnalyzer(logger.Slog(), observer)
	if err != nil {
		return nil, fmt.Errorf("create analyzer: %w", err)
	}

	return &Runner{
		cfg:      cfg,
		parser:   parser.NewParser(),
		analyzer: analyzer,
		metrics:  collector,
		logger:   logger,
	}, nil
}

// AnalyzeFile parses and analyzes one file.
func (r *Runner) AnalyzeFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	logger := r.logger.WithContext(logging.WithConfigFile(ctx, path))

	res := r.analyzeFile(path)

	status := metrics.StatusFailed
	if res.Err != nil {
		logger.Warn("Configuration could not be analyzed", "error", res.Err)
	} else {
		status = statusOf(res.Report.Summary)
		logger.Debug("Configuration analyzed",
			"run_id", res.Report.RunID,
			"errors", res.Report.Summary.Errors,
			"warnings", res.Report.Summary.Warnings,
		)
	}
	r.metrics.RecordAnalysis(status, time.Since(start))
	return res
}

func (r *Runner) analyzeFile(path string) FileResult {
	res := FileResult{Path: path}

	cfg, err := r.parser.Parse(path)
	if err != nil {
		res.Err = err
		return res
	}

	tree, err := r.analyzer.Analyze(cfg)
	if err != nil {
		res.Err = err
		return res
	}
	r.recordDiagnostics(tree)

	queries := r.cfg.Output.Queries
	if r.Queries != nil {
		queries = r.Queries
	}
	res.Report, res.Err = report.Build(tree, report.Options{
		SourceFile:  path,
		ConfigName:  cfg.Name,
		MinSeverity: results.Severity(r.cfg.Output.MinSeverity),
		Queries:     queries,
		IncludeTree: r.cfg.Output.IncludeTree,
	})
	return res
}

var issueSeverities = []results.Severity{results.SeverityInfo, results.SeverityWarning, results.SeverityError}

func (r *Runner) recordDiagnostics(tree *results.Tree) {
	if r.metrics == nil {
		return
	}
	for _, res := range search.Collect(tree, search.Criteria{Severities: issueSeverities}) {
		r.metrics.RecordDiagnostic(string(res.Node.Kind()), string(res.Node.GetIssue().Severity))
	}
}

func statusOf(s report.Summary) string {
	switch {
	case s.Errors > 0:
		return metrics.StatusErrors
	case s.Warnings > 0:
		return metrics.StatusWarnings
	default:
		return metrics.StatusClean
	}
}

// AnalyzeFiles analyzes paths concurrently and returns their results in
// the order given. It stops early only when ctx is cancelled.
func (r *Runner) AnalyzeFiles(ctx context.Context, paths []string, progress ProgressReporter) ([]FileResult, error) {
	if progress == nil {
		progress = NoProgress{}
	}
	limit := r.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	out := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	progress.Start(len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = r.AnalyzeFile(gctx, path)
			progress.Increment()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	progress.Finish()
	return out, nil
}

// Render writes the reports of every successfully analyzed file.
func (r *Runner) Render(w io.Writer, format report.Format, color bool, version string, files []FileResult) error {
	renderer, err := report.NewRenderer(format, report.RenderOptions{
		Color:       color,
		Indent:      r.cfg.Output.Indent,
		ToolVersion: version,
	})
	if err != nil {
		return err
	}

	reports := make([]*report.Report, 0, len(files))
	for _, f := range files {
		if f.Report != nil {
			reports = append(reports, f.Report)
		}
	}
	return renderer.Render(w, reports...)
}

// CollectFiles expands args into the configuration files to analyze.
// Directories are walked recursively for files with one of extensions;
// files named explicitly are kept whatever their extension. The result is
// sorted and free of duplicates.
func CollectFiles(args []string, extensions []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != arg && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && hasExtension(path, extensions) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, errors.New("no configuration files found")
	}
	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
