package config

import (
	"log/slog"

	"mercator-hq/valcheck/pkg/analysis"
	"mercator-hq/valcheck/pkg/analysis/lookupkeys"
	"mercator-hq/valcheck/pkg/services"
)

// CultureIDs returns the configured culture ids in order.
func (c *AnalysisConfig) CultureIDs() []string {
	ids := make([]string, len(c.Cultures))
	for i, culture := range c.Cultures {
		ids[i] = culture.ID
	}
	return ids
}

// Registry builds the built-in services around the configured cultures,
// lookup-key remaps and localized texts.
func (c *AnalysisConfig) Registry() *services.Registry {
	cultures := make([]services.CultureConfig, len(c.Cultures))
	for i, culture := range c.Cultures {
		cultures[i] = services.CultureConfig{CultureID: culture.ID, FallbackCultureID: culture.Fallback}
	}

	reg := services.NewDefaultRegistry(cultures...)
	if c.ExplicitFallbacksOnly {
		reg.Cultures = services.NewCultureRegistry(cultures...)
	}
	if len(c.LookupKeyFallbacks) > 0 {
		reg.LookupKeyFallbacks = services.NewLookupKeyFallbacks(services.BuiltinLookupKeyFallbacks()).
			With(c.LookupKeyFallbacks)
	}
	if len(c.Localization) > 0 {
		reg.Localizer = services.NewTextLocalizer(c.Localization)
	}
	return reg
}

// AnalyzerOptions returns the analyzer options for this configuration.
func (c *AnalysisConfig) AnalyzerOptions(logger *slog.Logger, observer lookupkeys.Observer) analysis.Options {
	return analysis.Options{
		Cultures:          c.CultureIDs(),
		SampleValues:      c.SampleValues,
		MaxConditionDepth: c.MaxConditionDepth,
		Logger:            logger,
		Observer:          observer,
	}
}

// NewAnalyzer builds an analyzer from this configuration.
func (c *AnalysisConfig) NewAnalyzer(logger *slog.Logger, observer lookupkeys.Observer) (*analysis.Analyzer, error) {
	return analysis.NewAnalyzer(c.Registry(), c.AnalyzerOptions(logger, observer))
}
