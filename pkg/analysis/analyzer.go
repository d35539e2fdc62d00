package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tiendc/go-deepcopy"

	"mercator-hq/valcheck/pkg/analysis/lookupkeys"
	"mercator-hq/valcheck/pkg/analysis/properties"
	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/services"
	"mercator-hq/valcheck/pkg/vcl/ast"
)

// DefaultMaxConditionDepth is the deepest condition nesting accepted when
// Options.MaxConditionDepth is zero.
const DefaultMaxConditionDepth = 8

var (
	// ErrNilConfig is returned when Analyze is called without a configuration.
	ErrNilConfig = errors.New("analysis: configuration is nil")
	// ErrNoCultures is returned by NewAnalyzer when neither the options nor
	// the culture service name an active culture.
	ErrNoCultures = errors.New("analysis: no active cultures")
)

// Options tune an Analyzer.
type Options struct {
	// Cultures overrides the culture service's active cultures.
	Cultures []string
	// SampleValues supplies sample values by field or lookup key.
	SampleValues lookupkeys.SampleValues
	// MaxConditionDepth limits condition nesting. Zero means the default.
	MaxConditionDepth int
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
	// Observer is notified of lookup outcomes, typically metrics.
	Observer lookupkeys.Observer
}

// Analyzer builds diagnostic trees. It holds no per-run state, so one
// Analyzer may serve concurrent Analyze calls.
type Analyzer struct {
	reg      *services.Registry
	opts     Options
	logger   *slog.Logger
	maxDepth int
}

// NewAnalyzer creates an analyzer over the given services.
func NewAnalyzer(reg *services.Registry, opts Options) (*Analyzer, error) {
	if reg == nil {
		return nil, errors.New("analysis: registry is nil")
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxDepth := opts.MaxConditionDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxConditionDepth
	}

	a := &Analyzer{reg: reg, opts: opts, logger: logger, maxDepth: maxDepth}
	if len(a.Cultures()) == 0 {
		return nil, ErrNoCultures
	}
	return a, nil
}

// Cultures returns the cultures every analysis runs against.
func (a *Analyzer) Cultures() []string {
	if len(a.opts.Cultures) > 0 {
		return append([]string(nil), a.opts.Cultures...)
	}
	return a.reg.Cultures.ActiveCultures()
}

// Analyze analyzes a snapshot of cfg and returns its diagnostic tree.
// Problems in the configuration are reported as tree nodes; the error is
// reserved for a nil configuration or a failed snapshot.
func (a *Analyzer) Analyze(cfg *ast.Config) (*results.Tree, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	var snapshot ast.Config
	if err := deepcopy.Copy(&snapshot, cfg); err != nil {
		return nil, fmt.Errorf("analysis: snapshot configuration: %w", err)
	}

	start := time.Now()
	r := a.newRun(&snapshot)
	tree := r.analyze()

	a.logger.Debug("configuration analyzed",
		"config", snapshot.Name,
		"fields", len(tree.Fields),
		"lookup_keys", len(tree.LookupKeys),
		"duration", time.Since(start),
	)
	return tree, nil
}

func (a *Analyzer) newRun(cfg *ast.Config) *run {
	cultures := a.Cultures()
	samples := lookupkeys.NewSampleResolver(a.reg, a.opts.SampleValues)
	lookups := lookupkeys.NewAnalyzers(a.reg, samples, cultures, a.logger).WithObserver(a.opts.Observer)

	fieldNames := make([]string, 0, len(cfg.Fields))
	fields := make(map[string]*ast.Field, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fieldNames = append(fieldNames, f.Name)
		if _, exists := fields[f.Name]; !exists {
			fields[f.Name] = f
		}
	}

	return &run{
		a:          a,
		cfg:        cfg,
		cultures:   cultures,
		lookups:    lookups,
		keys:       newKeyTable(a.reg.KnownLookupKeys()),
		fields:     fields,
		l10n:       properties.NewL10nChecker(a.reg, cultures),
		conditions: properties.NewConditionChecker(a.reg.Conditions, fieldNames),
	}
}
