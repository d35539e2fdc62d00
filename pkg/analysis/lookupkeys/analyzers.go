package lookupkeys

import (
	"fmt"
	"log/slog"
	"strings"

	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/services"
	vclerrors "mercator-hq/valcheck/pkg/vcl/errors"
)

// Service family names used in messages and observations.
const (
	ServiceIdentifier = "identifier"
	ServiceConverter  = "converter"
	ServiceComparer   = "comparer"
	ServiceFormatter  = "formatter"
	ServiceParser     = "parser"
)

// Outcomes reported to an Observer.
const (
	OutcomeFound    = "found"
	OutcomeFallback = "fallback"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
)

// Observer is notified of every lookup outcome.
type Observer interface {
	ObserveLookup(service, outcome string)
}

// Analyzers ask the registered services whether they can serve a lookup key.
// Failures of a service, returned or panicked, become error outcomes and
// never escape.
type Analyzers struct {
	reg      *services.Registry
	samples  *SampleResolver
	cultures []string
	logger   *slog.Logger
	observer Observer
}

// NewAnalyzers creates analyzers for the given cultures. A nil resolver
// disables sample lookups; a nil logger discards debug output.
func NewAnalyzers(reg *services.Registry, samples *SampleResolver, cultures []string, logger *slog.Logger) *Analyzers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if samples == nil {
		samples = NewSampleResolver(reg, SampleValues{})
	}
	return &Analyzers{
		reg:      reg,
		samples:  samples,
		cultures: cultures,
		logger:   logger,
	}
}

// WithObserver installs an observer of lookup outcomes.
func (a *Analyzers) WithObserver(o Observer) *Analyzers {
	a.observer = o
	return a
}

// Samples returns the sample resolver.
func (a *Analyzers) Samples() *SampleResolver { return a.samples }

func (a *Analyzers) observe(service, outcome string) {
	if a.observer != nil {
		a.observer.ObserveLookup(service, outcome)
	}
}

// call runs fn and converts a returned error or a panic into an error issue.
func call(issue *results.Issue, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			issue.Report(results.SeverityError, "%v", r)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		issue.Report(results.SeverityError, "%s", err.Error())
		return false
	}
	return true
}

func (a *Analyzers) noService(issue *results.Issue, service string) {
	issue.Report(results.SeverityError, "No %s service is registered.", service)
	a.observe(service, OutcomeError)
}

func (a *Analyzers) noCultures(issue *results.Issue, service, key string) {
	issue.Report(results.SeverityWarning,
		"No cultures are active, so the %s for lookup key %q was not checked.", service, key)
	a.observe(service, OutcomeSkipped)
}

// Identifier looks up the identifier of key. A missing identifier is a
// warning when the key remaps to another key and an error otherwise.
func (a *Analyzers) Identifier(key string) *results.IdentifierServiceResult {
	res := &results.IdentifierServiceResult{}
	if a.reg.Identifiers == nil {
		a.noService(&res.Issue, ServiceIdentifier)
		return res
	}

	var found services.DataTypeIdentifier
	if !call(&res.Issue, func() error {
		var err error
		found, err = a.reg.Identifiers.Find(key)
		return err
	}) {
		a.observe(ServiceIdentifier, OutcomeError)
		return res
	}

	if found != nil {
		res.ClassFound = services.NameOf(found)
		res.Instance = found
		a.observe(ServiceIdentifier, OutcomeFound)
		return res
	}

	res.NotFound = true
	var remap string
	if !call(&res.Issue, func() error {
		var err error
		remap, err = a.samples.remap(key)
		return err
	}) {
		a.observe(ServiceIdentifier, OutcomeError)
		return res
	}
	if remap != "" {
		res.Report(results.SeverityWarning,
			"No identifier is registered for lookup key %q. Values are identified through its fallback %q.", key, remap)
		a.observe(ServiceIdentifier, OutcomeFallback)
		return res
	}

	msg := fmt.Sprintf("No identifier is registered for lookup key %q.", key)
	if hint := vclerrors.SuggestName(key, a.reg.KnownLookupKeys()); hint != "" {
		msg += " " + hint
	}
	res.Report(results.SeverityError, "%s", msg)
	a.observe(ServiceIdentifier, OutcomeNotFound)
	return res
}

// Converter looks up a converter from sourceKey to targetKey using a sample
// value of sourceKey.
func (a *Analyzers) Converter(sourceKey, targetKey string, field *FieldContext) *results.ConverterServiceResult {
	res := &results.ConverterServiceResult{SourceLookupKey: sourceKey, TargetLookupKey: targetKey}
	if a.reg.Converters == nil {
		a.noService(&res.Issue, ServiceConverter)
		return res
	}

	var sample any
	var ok bool
	if !call(&res.Issue, func() error {
		var err error
		sample, ok, err = a.samples.Resolve(sourceKey, field)
		return err
	}) {
		a.observe(ServiceConverter, OutcomeError)
		return res
	}
	if !ok {
		res.Report(results.SeverityWarning,
			"No sample value is available for lookup key %q, so the converter to %q could not be checked.", sourceKey, targetKey)
		a.observe(ServiceConverter, OutcomeSkipped)
		return res
	}

	var found services.DataTypeConverter
	if !call(&res.Issue, func() error {
		var err error
		found, err = a.reg.Converters.Find(sample, sourceKey, targetKey)
		return err
	}) {
		a.observe(ServiceConverter, OutcomeError)
		return res
	}

	if found == nil {
		res.NotFound = true
		res.Report(results.SeverityError,
			"No converter is registered to convert lookup key %q to %q.", sourceKey, targetKey)
		a.observe(ServiceConverter, OutcomeNotFound)
		return res
	}

	res.ClassFound = services.NameOf(found)
	res.Instance = found
	a.observe(ServiceConverter, OutcomeFound)
	return res
}

// ComparerRequest describes the two operands of a comparison. SecondValue,
// when set, is used instead of a sample of SecondLookupKey.
type ComparerRequest struct {
	LookupKey       string
	SecondLookupKey string
	SecondValue     any
	Field           *FieldContext
}

// Comparer looks up a comparer for the request's operands.
func (a *Analyzers) Comparer(req ComparerRequest) *results.ComparerServiceResult {
	secondKey := req.SecondLookupKey
	if secondKey == "" {
		secondKey = req.LookupKey
	}
	res := &results.ComparerServiceResult{SecondLookupKey: secondKey}
	if a.reg.Comparers == nil {
		a.noService(&res.Issue, ServiceComparer)
		return res
	}

	var first, second any
	var ok bool
	if !call(&res.Issue, func() error {
		var err error
		first, ok, err = a.samples.Resolve(req.LookupKey, req.Field)
		return err
	}) {
		a.observe(ServiceComparer, OutcomeError)
		return res
	}
	if !ok {
		res.Report(results.SeverityWarning,
			"No sample value is available for lookup key %q, so the comparer could not be checked.", req.LookupKey)
		a.observe(ServiceComparer, OutcomeSkipped)
		return res
	}
	second = req.SecondValue
	if second == nil {
		if !call(&res.Issue, func() error {
			var err error
			second, ok, err = a.samples.Resolve(secondKey, nil)
			return err
		}) {
			a.observe(ServiceComparer, OutcomeError)
			return res
		}
		if !ok {
			res.Report(results.SeverityWarning,
				"No sample value is available for lookup key %q, so the comparer could not be checked.", secondKey)
			a.observe(ServiceComparer, OutcomeSkipped)
			return res
		}
	}

	var found services.DataTypeComparer
	if !call(&res.Issue, func() error {
		var err error
		found, err = a.reg.Comparers.Find(first, second, req.LookupKey, secondKey)
		return err
	}) {
		a.observe(ServiceComparer, OutcomeError)
		return res
	}

	if found == nil {
		res.NotFound = true
		res.Report(results.SeverityError,
			"No comparer is registered for lookup keys %q and %q.", req.LookupKey, secondKey)
		a.observe(ServiceComparer, OutcomeNotFound)
		return res
	}

	res.ClassFound = services.NameOf(found)
	res.Instance = found
	a.observe(ServiceComparer, OutcomeFound)
	return res
}

// Formatter looks up a formatter for key in every active culture, following
// each culture's fallback chain. When no culture succeeds the result is
// marked NotFound and TryFallback so the caller can retry with the key's remap.
func (a *Analyzers) Formatter(key string) *results.FormatterServiceResult {
	res := &results.FormatterServiceResult{}
	if a.reg.Formatters == nil {
		a.noService(&res.Issue, ServiceFormatter)
		return res
	}
	if len(a.cultures) == 0 {
		a.noCultures(&res.Issue, ServiceFormatter, key)
		return res
	}

	foundAny := false
	for _, culture := range a.cultures {
		pc := &results.FormatterForCultureResult{RequestedCultureID: culture}
		res.Cultures = append(res.Cultures, pc)

		var found services.DataTypeFormatter
		var actual string
		if !call(&pc.Issue, func() error {
			var err error
			actual, err = WalkCultures(a.reg.Cultures, culture, func(id string) (bool, error) {
				f, err := a.reg.Formatters.Find(key, id)
				if err != nil {
					return false, err
				}
				found = f
				return f != nil, nil
			})
			return err
		}) {
			a.observe(ServiceFormatter, OutcomeError)
			continue
		}

		if found == nil {
			pc.NotFound = true
			pc.Report(results.SeverityError,
				"No formatter is registered for lookup key %q in culture %q.", key, culture)
			a.observe(ServiceFormatter, OutcomeNotFound)
			continue
		}

		foundAny = true
		pc.ClassFound = services.NameOf(found)
		pc.Instance = found
		pc.ActualCultureID = actual
		if !strings.EqualFold(actual, culture) {
			pc.Report(results.SeverityInfo,
				"Formatter for culture %q was found through fallback culture %q.", culture, actual)
			a.observe(ServiceFormatter, OutcomeFallback)
		} else {
			a.observe(ServiceFormatter, OutcomeFound)
		}
	}

	if !foundAny {
		res.NotFound = true
		res.TryFallback = true
		res.Report(results.SeverityError,
			"No formatter is registered for lookup key %q in any culture.", key)
	}
	a.logger.Debug("formatter lookup",
		"lookup_key", key,
		"cultures", len(res.Cultures),
		"not_found", res.NotFound,
	)
	return res
}

// Parser looks up every parser compatible with key in each active culture,
// following fallback chains like Formatter.
func (a *Analyzers) Parser(key string) *results.ParserServiceResult {
	res := &results.ParserServiceResult{}
	if a.reg.Parsers == nil {
		a.noService(&res.Issue, ServiceParser)
		return res
	}
	if len(a.cultures) == 0 {
		a.noCultures(&res.Issue, ServiceParser, key)
		return res
	}

	foundAny := false
	for _, culture := range a.cultures {
		pc := &results.ParserForCultureResult{RequestedCultureID: culture}
		res.Cultures = append(res.Cultures, pc)

		var found []services.DataTypeParser
		var actual string
		if !call(&pc.Issue, func() error {
			var err error
			actual, err = WalkCultures(a.reg.Cultures, culture, func(id string) (bool, error) {
				parsers, err := a.reg.Parsers.Compatible(key, id)
				if err != nil {
					return false, err
				}
				found = parsers
				return len(parsers) > 0, nil
			})
			return err
		}) {
			a.observe(ServiceParser, OutcomeError)
			continue
		}

		if len(found) == 0 {
			pc.NotFound = true
			pc.Report(results.SeverityError,
				"No parser is registered for lookup key %q in culture %q.", key, culture)
			a.observe(ServiceParser, OutcomeNotFound)
			continue
		}

		foundAny = true
		pc.ActualCultureID = actual
		for _, p := range found {
			pc.Matches = append(pc.Matches, &results.ParserMatchResult{
				ServiceOutcome: results.ServiceOutcome{ClassFound: services.NameOf(p), Instance: p},
			})
		}
		if !strings.EqualFold(actual, culture) {
			pc.Report(results.SeverityInfo,
				"Parsers for culture %q were found through fallback culture %q.", culture, actual)
			a.observe(ServiceParser, OutcomeFallback)
		} else {
			a.observe(ServiceParser, OutcomeFound)
		}
	}

	if !foundAny {
		res.NotFound = true
		res.TryFallback = true
		res.Report(results.SeverityError,
			"No parser is registered for lookup key %q in any culture.", key)
	}
	a.logger.Debug("parser lookup",
		"lookup_key", key,
		"cultures", len(res.Cultures),
		"not_found", res.NotFound,
	)
	return res
}

// Remap returns the key's configured remap, or "". Failures of the fallback
// service, panics included, are returned as errors.
func (a *Analyzers) Remap(key string) (string, error) {
	return a.samples.remap(key)
}
