package lookupkeys

import (
	"errors"
	"strings"
	"testing"

	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/services"
)

type formatterFinder func(key, culture string) (services.DataTypeFormatter, error)

func (f formatterFinder) Find(key, culture string) (services.DataTypeFormatter, error) {
	return f(key, culture)
}

type failingIdentifiers struct{}

func (failingIdentifiers) Find(string) (services.DataTypeIdentifier, error) {
	return nil, errors.New("identifier registry offline")
}

func (failingIdentifiers) Identify(any) (string, error) { return "", nil }

type panickingIdentifiers struct{}

func (panickingIdentifiers) Find(string) (services.DataTypeIdentifier, error) {
	panic("identifier table corrupted")
}

func (panickingIdentifiers) Identify(any) (string, error) { return "", nil }

type failingFallbacks struct{}

func (failingFallbacks) Find(string) (string, error) {
	return "", errors.New("fallback table unavailable")
}

type countingObserver map[string]int

func (o countingObserver) ObserveLookup(service, outcome string) {
	o[service+"/"+outcome]++
}

func defaultAnalyzers(cultures ...string) *Analyzers {
	configs := make([]services.CultureConfig, len(cultures))
	for i, c := range cultures {
		configs[i] = services.CultureConfig{CultureID: c}
	}
	reg := services.NewDefaultRegistry(configs...)
	return NewAnalyzers(reg, nil, cultures, nil)
}

func TestFormatter_UnresolvedInAllCultures(t *testing.T) {
	res := defaultAnalyzers("en", "fr").Formatter("Custom")

	if !res.NotFound || !res.TryFallback {
		t.Errorf("NotFound = %v, TryFallback = %v, want both true", res.NotFound, res.TryFallback)
	}
	if res.Severity != results.SeverityError {
		t.Errorf("Severity = %s, want error", res.Severity)
	}
	if len(res.Cultures) != 2 {
		t.Fatalf("got %d culture results, want 2", len(res.Cultures))
	}
	for i, want := range []string{"en", "fr"} {
		pc := res.Cultures[i]
		if pc.RequestedCultureID != want || pc.Severity != results.SeverityError || !pc.NotFound {
			t.Errorf("culture %d = %+v", i, pc)
		}
		if !strings.Contains(pc.Message, `"Custom"`) || !strings.Contains(pc.Message, want) {
			t.Errorf("message %q should name the key and culture", pc.Message)
		}
	}
}

func TestFormatter_TwoStepCultureFallback(t *testing.T) {
	money := services.NewFormatter("MoneyFormatter", []string{"Money"}, []string{"en"},
		func(v any, _, _ string) (string, error) { return "", nil })
	reg := &services.Registry{
		Cultures: services.NewCultureRegistry(
			services.CultureConfig{CultureID: "en-GB", FallbackCultureID: "en"},
			services.CultureConfig{CultureID: "en"},
		),
		Formatters: services.NewFormatterRegistry(money),
	}

	res := NewAnalyzers(reg, nil, []string{"en-GB"}, nil).Formatter("Money")
	if res.NotFound || res.TryFallback {
		t.Fatalf("NotFound = %v, TryFallback = %v, want both false", res.NotFound, res.TryFallback)
	}
	pc := res.Culture("en-GB")
	if pc == nil {
		t.Fatal("no result for en-GB")
	}
	if pc.ActualCultureID != "en" {
		t.Errorf("ActualCultureID = %q, want en", pc.ActualCultureID)
	}
	if pc.ClassFound != "MoneyFormatter" || pc.Instance != money {
		t.Errorf("ClassFound = %q", pc.ClassFound)
	}
	if pc.Severity != results.SeverityInfo {
		t.Errorf("Severity = %s, want info", pc.Severity)
	}
}

func TestFormatter_MutualFallbackTerminates(t *testing.T) {
	calls := 0
	reg := &services.Registry{
		Cultures: services.NewCultureRegistry(
			services.CultureConfig{CultureID: "en", FallbackCultureID: "fr"},
			services.CultureConfig{CultureID: "fr", FallbackCultureID: "en"},
		),
		Formatters: formatterFinder(func(string, string) (services.DataTypeFormatter, error) {
			calls++
			return nil, nil
		}),
	}

	res := NewAnalyzers(reg, nil, []string{"en", "fr"}, nil).Formatter("X")
	if !res.NotFound {
		t.Error("NotFound = false")
	}
	if calls != 4 {
		t.Errorf("formatter service called %d times, want 4", calls)
	}
}

func TestFormatter_ServiceFailuresBecomeErrors(t *testing.T) {
	tests := []struct {
		name    string
		find    formatterFinder
		message string
	}{
		{
			name: "panic",
			find: func(string, string) (services.DataTypeFormatter, error) {
				panic("formatter table corrupted")
			},
			message: "formatter table corrupted",
		},
		{
			name: "error",
			find: func(string, string) (services.DataTypeFormatter, error) {
				return nil, errors.New("lookup timed out")
			},
			message: "lookup timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &services.Registry{
				Cultures:   services.NewCultureRegistry(services.CultureConfig{CultureID: "en"}),
				Formatters: tt.find,
			}
			obs := countingObserver{}
			res := NewAnalyzers(reg, nil, []string{"en"}, nil).WithObserver(obs).Formatter("Integer")

			pc := res.Cultures[0]
			if pc.Severity != results.SeverityError || pc.Message != tt.message {
				t.Errorf("culture result = %+v", pc)
			}
			if !res.NotFound || !res.TryFallback {
				t.Error("a failing culture should count as not found")
			}
			if obs["formatter/error"] != 1 {
				t.Errorf("observer = %v", obs)
			}
		})
	}
}

func TestFormatter_NoService(t *testing.T) {
	reg := &services.Registry{Cultures: services.NewCultureRegistry()}
	res := NewAnalyzers(reg, nil, []string{"en"}, nil).Formatter("Integer")
	if res.Severity != results.SeverityError || !strings.Contains(res.Message, "formatter service") {
		t.Errorf("result = %+v", res)
	}
}

func TestParser_RecordsEveryCompatibleParser(t *testing.T) {
	res := defaultAnalyzers("en-US").Parser(services.LookupKeyCurrency)
	pc := res.Culture("en-US")
	if pc == nil || len(pc.Matches) != 2 {
		t.Fatalf("culture result = %+v", pc)
	}
	if pc.Matches[0].ClassFound != "NumberParser" || pc.Matches[1].ClassFound != "CurrencyParser" {
		t.Errorf("matches = %s, %s", pc.Matches[0].ClassFound, pc.Matches[1].ClassFound)
	}

	res = defaultAnalyzers("en", "fr").Parser("Custom")
	if !res.NotFound || !res.TryFallback || len(res.Cultures) != 2 {
		t.Errorf("Parser(Custom) = %+v", res)
	}
}

func TestIdentifier(t *testing.T) {
	a := defaultAnalyzers("en")

	tests := []struct {
		key      string
		severity results.Severity
		class    string
		contains string
	}{
		{services.LookupKeyInteger, results.SeverityNone, "IntegerIdentifier", ""},
		{services.LookupKeyCurrency, results.SeverityWarning, "", `fallback "Number"`},
		{"Integr", results.SeverityError, "", "Did you mean 'Integer'?"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			res := a.Identifier(tt.key)
			if res.Severity != tt.severity || res.ClassFound != tt.class {
				t.Errorf("Identifier(%s) = %+v", tt.key, res)
			}
			if !strings.Contains(res.Message, tt.contains) {
				t.Errorf("message %q should contain %q", res.Message, tt.contains)
			}
		})
	}

	reg := services.NewDefaultRegistry(services.CultureConfig{CultureID: "en"})
	reg.Identifiers = failingIdentifiers{}
	res := NewAnalyzers(reg, nil, []string{"en"}, nil).Identifier("Integer")
	if res.Severity != results.SeverityError || res.Message != "identifier registry offline" {
		t.Errorf("failing service result = %+v", res)
	}
}

func TestSampleFailuresBecomeErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(reg *services.Registry)
		message string
	}{
		{"identifier error", func(reg *services.Registry) { reg.Identifiers = failingIdentifiers{} }, "identifier registry offline"},
		{"identifier panic", func(reg *services.Registry) { reg.Identifiers = panickingIdentifiers{} }, "identifier table corrupted"},
		{"fallback error", func(reg *services.Registry) {
			reg.Identifiers = services.NewIdentifierRegistry()
			reg.LookupKeyFallbacks = failingFallbacks{}
		}, "fallback table unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := services.NewDefaultRegistry(services.CultureConfig{CultureID: "en"})
			tt.setup(reg)
			obs := countingObserver{}
			a := NewAnalyzers(reg, nil, []string{"en"}, nil).WithObserver(obs)

			conv := a.Converter(services.LookupKeyInteger, services.LookupKeyNumber, nil)
			if conv.Severity != results.SeverityError || conv.Message != tt.message {
				t.Errorf("Converter() = %s %q, want error %q", conv.Severity, conv.Message, tt.message)
			}
			cmp := a.Comparer(ComparerRequest{LookupKey: services.LookupKeyInteger, SecondValue: 5})
			if cmp.Severity != results.SeverityError || cmp.Message != tt.message {
				t.Errorf("Comparer() = %s %q, want error %q", cmp.Severity, cmp.Message, tt.message)
			}
			if obs["converter/error"] != 1 || obs["comparer/error"] != 1 {
				t.Errorf("observer = %v", obs)
			}
		})
	}
}

func TestIdentifier_FailingFallbackService(t *testing.T) {
	reg := services.NewDefaultRegistry(services.CultureConfig{CultureID: "en"})
	reg.Identifiers = services.NewIdentifierRegistry()
	reg.LookupKeyFallbacks = failingFallbacks{}

	res := NewAnalyzers(reg, nil, []string{"en"}, nil).Identifier(services.LookupKeyCurrency)
	if res.Severity != results.SeverityError || res.Message != "fallback table unavailable" {
		t.Errorf("Identifier() = %+v", res)
	}
	if _, err := NewAnalyzers(reg, nil, []string{"en"}, nil).Remap(services.LookupKeyCurrency); err == nil {
		t.Error("Remap() should return the service error")
	}
}

func TestFormatterAndParser_NoCultures(t *testing.T) {
	a := NewAnalyzers(services.NewDefaultRegistry(), nil, nil, nil)

	fs := a.Formatter(services.LookupKeyInteger)
	if fs.Severity != results.SeverityWarning || fs.NotFound || fs.TryFallback || len(fs.Cultures) != 0 {
		t.Errorf("Formatter() = %+v, want an unchecked warning", fs)
	}
	ps := a.Parser(services.LookupKeyInteger)
	if ps.Severity != results.SeverityWarning || ps.NotFound || ps.TryFallback || len(ps.Cultures) != 0 {
		t.Errorf("Parser() = %+v, want an unchecked warning", ps)
	}
}

func TestConverterAndComparer(t *testing.T) {
	a := defaultAnalyzers("en")

	conv := a.Converter(services.LookupKeyInteger, services.LookupKeyNumber, nil)
	if conv.ClassFound != "NumberConverter" || conv.Severity != results.SeverityNone {
		t.Errorf("Converter(Integer, Number) = %+v", conv)
	}

	conv = a.Converter("Custom", services.LookupKeyNumber, nil)
	if conv.Severity != results.SeverityWarning || conv.NotFound {
		t.Errorf("Converter without sample = %+v", conv)
	}

	conv = a.Converter(services.LookupKeyString, services.LookupKeyNumber, nil)
	if conv.Severity != results.SeverityError || !conv.NotFound {
		t.Errorf("Converter(String, Number) = %+v", conv)
	}

	cmp := a.Comparer(ComparerRequest{LookupKey: services.LookupKeyInteger, SecondLookupKey: services.LookupKeyNumber})
	if cmp.ClassFound != "NumberComparer" || cmp.SecondLookupKey != services.LookupKeyNumber {
		t.Errorf("Comparer(Integer, Number) = %+v", cmp)
	}

	cmp = a.Comparer(ComparerRequest{LookupKey: services.LookupKeyInteger, SecondValue: "ten"})
	if cmp.Severity != results.SeverityError || !cmp.NotFound {
		t.Errorf("Comparer(Integer, \"ten\") = %+v", cmp)
	}
}

func TestSampleResolver(t *testing.T) {
	reg := services.NewDefaultRegistry(services.CultureConfig{CultureID: "en"})
	r := NewSampleResolver(reg, SampleValues{
		ByField:     map[string]any{"age": 42},
		ByLookupKey: map[string]any{"Zip": "90210"},
	})

	tests := []struct {
		name   string
		key    string
		field  *FieldContext
		want   any
		wantOK bool
	}{
		{"explicit field", services.LookupKeyString, &FieldContext{FieldName: "age"}, 42, true},
		{"explicit key ignores case", "zip", nil, "90210", true},
		{"identifier sample", services.LookupKeyInteger, nil, 10, true},
		{"remap", services.LookupKeyCurrency, nil, 1.5, true},
		{"declared data type", "Custom", &FieldContext{FieldName: "count", DataType: services.LookupKeyInteger}, 10, true},
		{"unknown", "Custom", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := r.Resolve(tt.key, tt.field)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.key, err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Resolve(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSampleResolver_RemapCycle(t *testing.T) {
	reg := &services.Registry{
		Identifiers:        services.NewIdentifierRegistry(),
		LookupKeyFallbacks: services.NewLookupKeyFallbacks(map[string]string{"A": "B", "B": "A"}),
	}
	if v, ok, err := NewSampleResolver(reg, SampleValues{}).Resolve("A", nil); ok || err != nil {
		t.Errorf("Resolve(A) = %v, %v; want not found", v, err)
	}
}

func TestSampleResolver_ServiceFailures(t *testing.T) {
	tests := []struct {
		name    string
		reg     *services.Registry
		message string
	}{
		{
			name:    "identifier error",
			reg:     &services.Registry{Identifiers: failingIdentifiers{}},
			message: "identifier registry offline",
		},
		{
			name:    "identifier panic",
			reg:     &services.Registry{Identifiers: panickingIdentifiers{}},
			message: "identifier table corrupted",
		},
		{
			name:    "fallback error",
			reg:     &services.Registry{Identifiers: services.NewIdentifierRegistry(), LookupKeyFallbacks: failingFallbacks{}},
			message: "fallback table unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok, err := NewSampleResolver(tt.reg, SampleValues{}).Resolve("Integer", nil)
			if err == nil || err.Error() != tt.message {
				t.Errorf("Resolve() = %v, %v, %v; want error %q", v, ok, err, tt.message)
			}
		})
	}
}

func TestWalkCultures(t *testing.T) {
	cultures := services.NewCultureRegistry(
		services.CultureConfig{CultureID: "en-GB", FallbackCultureID: "en"},
		services.CultureConfig{CultureID: "en"},
	)

	var tried []string
	actual, err := WalkCultures(cultures, "en-GB", func(id string) (bool, error) {
		tried = append(tried, id)
		return false, nil
	})
	if err != nil || actual != "" {
		t.Errorf("WalkCultures() = %q, %v", actual, err)
	}
	if strings.Join(tried, ",") != "en-GB,en" {
		t.Errorf("tried %v", tried)
	}

	tried = nil
	actual, _ = WalkCultures(cultures, "de", func(id string) (bool, error) {
		tried = append(tried, id)
		return false, nil
	})
	if actual != "" || len(tried) != 1 {
		t.Errorf("unregistered culture: actual %q, tried %v", actual, tried)
	}

	_, err = WalkCultures(cultures, "en", func(string) (bool, error) {
		return false, errors.New("boom")
	})
	if err == nil {
		t.Error("WalkCultures() should return the try error")
	}
}
