package services

import (
	"strings"
	"testing"
)

func TestCultureRegistry_DerivedFallbacks(t *testing.T) {
	reg := NewCultureRegistry(
		CultureConfig{CultureID: "en"},
		CultureConfig{CultureID: "en-GB"},
		CultureConfig{CultureID: "fr-CA", FallbackCultureID: "en"},
		CultureConfig{CultureID: "de-AT"},
	).WithDerivedFallbacks()

	tests := []struct {
		culture  string
		fallback string
	}{
		{"en", ""},
		{"en-GB", "en"},
		{"EN-gb", "en"},
		{"fr-CA", "en"},
		{"de-AT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.culture, func(t *testing.T) {
			c, err := reg.Find(tt.culture)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if c == nil {
				t.Fatalf("Find(%q) = nil", tt.culture)
			}
			if c.FallbackCultureID != tt.fallback {
				t.Errorf("fallback = %q, want %q", c.FallbackCultureID, tt.fallback)
			}
		})
	}

	if c, _ := reg.Find("es"); c != nil {
		t.Errorf("Find(es) = %+v, want nil", c)
	}

	active := reg.ActiveCultures()
	if strings.Join(active, ",") != "en,en-GB,fr-CA,de-AT" {
		t.Errorf("ActiveCultures() = %v", active)
	}
}

func TestValidateCultureID(t *testing.T) {
	for _, id := range []string{"en", "en-GB", "zh-Hant-TW"} {
		if err := ValidateCultureID(id); err != nil {
			t.Errorf("ValidateCultureID(%q) = %v", id, err)
		}
	}
	for _, id := range []string{"", "  ", "not a culture!"} {
		if err := ValidateCultureID(id); err == nil {
			t.Errorf("ValidateCultureID(%q) = nil, want error", id)
		}
	}
}

func TestIdentifierRegistry_Identify(t *testing.T) {
	reg := NewIdentifierRegistry(BuiltinIdentifiers()...)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"int", 5, LookupKeyInteger},
		{"int64", int64(5), LookupKeyInteger},
		{"float", 2.5, LookupKeyNumber},
		{"string", "x", LookupKeyString},
		{"bool", true, LookupKeyBoolean},
		{"nil", nil, ""},
		{"unsupported", []int{1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Identify(tt.value)
			if err != nil {
				t.Fatalf("Identify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Identify(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}

	id, _ := reg.Find(LookupKeyDate)
	if id == nil || id.SampleValue() == nil {
		t.Fatalf("Date identifier missing or without sample")
	}
	if id, _ := reg.Find("date"); id != nil {
		t.Errorf("Find is case sensitive, got %v", id)
	}
}

func TestFormatterRegistry_Find(t *testing.T) {
	reg := NewFormatterRegistry(BuiltinFormatters()...)

	tests := []struct {
		key, culture string
		want         string
	}{
		{LookupKeyBoolean, "en", "BooleanFormatter"},
		{LookupKeyBoolean, "en-GB", ""},
		{LookupKeyNumber, "fr-CA", "NumberFormatter"},
		{LookupKeyCurrency, "en-US", "CurrencyFormatter"},
		{LookupKeyCurrency, "en", ""},
		{"Custom", "en", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.culture, func(t *testing.T) {
			f, err := reg.Find(tt.key, tt.culture)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if got := NameOf(f); got != tt.want {
				t.Errorf("Find() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuiltinFormatters_Format(t *testing.T) {
	reg := NewFormatterRegistry(BuiltinFormatters()...)

	tests := []struct {
		key, culture string
		value        any
		want         string
	}{
		{LookupKeyBoolean, "fr", false, "non"},
		{LookupKeyNumber, "en", 1234.5, "1,234.5"},
		{LookupKeyUppercase, "en", "abc", "ABC"},
		{LookupKeyString, "en", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f, _ := reg.Find(tt.key, tt.culture)
			if f == nil {
				t.Fatalf("no formatter for %s/%s", tt.key, tt.culture)
			}
			got, err := f.Format(tt.value, tt.key, tt.culture)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserRegistry_Compatible(t *testing.T) {
	reg := NewParserRegistry(BuiltinParsers()...)

	parsers, err := reg.Compatible(LookupKeyCurrency, "en-US")
	if err != nil {
		t.Fatalf("Compatible() error = %v", err)
	}
	var names []string
	for _, p := range parsers {
		names = append(names, NameOf(p))
	}
	if strings.Join(names, ",") != "NumberParser,CurrencyParser" {
		t.Errorf("Compatible() = %v", names)
	}

	parsers, _ = reg.Compatible(LookupKeyNumber, "de")
	if len(parsers) != 1 {
		t.Fatalf("Compatible(Number, de) = %d parsers, want 1", len(parsers))
	}
	got, err := parsers[0].Parse("1.234,5", LookupKeyNumber, "de")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != 1234.5 {
		t.Errorf("Parse() = %v, want 1234.5", got)
	}

	if parsers, _ := reg.Compatible("Custom", "en"); len(parsers) != 0 {
		t.Errorf("Compatible(Custom) = %d parsers, want 0", len(parsers))
	}
}

func TestConvertersAndComparers(t *testing.T) {
	converters := NewConverterRegistry(BuiltinConverters()...)

	c, _ := converters.Find(5, LookupKeyInteger, LookupKeyNumber)
	if c == nil {
		t.Fatal("no Integer to Number converter")
	}
	if got, _ := c.Convert(5, LookupKeyInteger, LookupKeyNumber); got != 5.0 {
		t.Errorf("Convert() = %v, want 5.0", got)
	}

	c, _ = converters.Find("HeLLo", LookupKeyString, LookupKeyCaseInsensitive)
	if got, _ := c.Convert("HeLLo", LookupKeyString, LookupKeyCaseInsensitive); got != "hello" {
		t.Errorf("Convert() = %v, want hello", got)
	}

	if c, _ := converters.Find("x", LookupKeyInteger, LookupKeyNumber); c != nil {
		t.Errorf("Find() accepted a string for a numeric conversion")
	}

	comparers := NewComparerRegistry(BuiltinComparers()...)
	cmp, _ := comparers.Find(1, 2.5, LookupKeyInteger, LookupKeyNumber)
	if NameOf(cmp) != "NumberComparer" {
		t.Fatalf("Find() = %q, want NumberComparer", NameOf(cmp))
	}
	if got, _ := cmp.Compare(1, 2.5, LookupKeyInteger, LookupKeyNumber); got != Less {
		t.Errorf("Compare() = %v, want Less", got)
	}
	if cmp, _ := comparers.Find(1, "x", "", ""); cmp != nil {
		t.Errorf("Find() returned %q for mixed values", NameOf(cmp))
	}
}

func TestConditionTypes(t *testing.T) {
	reg, err := NewConditionTypes(BuiltinConditions()...)
	if err != nil {
		t.Fatalf("NewConditionTypes() error = %v", err)
	}

	not := reg.Find("not")
	if not == nil || !not.Composite || not.MaxChildren != 1 {
		t.Errorf("not descriptor = %+v", not)
	}
	if reg.Find("Not") != nil {
		t.Error("Find is case sensitive")
	}

	if err := reg.Register(&ConditionDescriptor{Type: "not"}); err == nil {
		t.Error("Register() duplicate = nil, want error")
	}

	props := reg.Find("range").Properties()
	want := "comparer_lookup_key,conversion_lookup_key,maximum,minimum,value_host_name"
	if strings.Join(props, ",") != want {
		t.Errorf("Properties() = %v, want %s", props, want)
	}
}

type plainService struct{}

func TestNameOf(t *testing.T) {
	tests := []struct {
		name    string
		service any
		want    string
	}{
		{"nil", nil, ""},
		{"named", NewParser("MyParser", nil, nil, nil), "MyParser"},
		{"struct", plainService{}, "plainService"},
		{"pointer", &plainService{}, "plainService"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameOf(tt.service); got != tt.want {
				t.Errorf("NameOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	if err := (&Registry{}).Validate(); err == nil {
		t.Error("Validate() on empty registry = nil, want error")
	}

	reg := NewDefaultRegistry(CultureConfig{CultureID: "en"}, CultureConfig{CultureID: "en-GB"})
	if err := reg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	keys := strings.Join(reg.KnownLookupKeys(), ",")
	for _, k := range []string{LookupKeyInteger, LookupKeyCurrency, LookupKeyString} {
		if !strings.Contains(keys, k) {
			t.Errorf("KnownLookupKeys() missing %s", k)
		}
	}

	related, _ := reg.LookupKeyFallbacks.Find("currency")
	if related != LookupKeyNumber {
		t.Errorf("fallback for currency = %q, want Number", related)
	}

	gb, _ := reg.Cultures.Find("en-GB")
	if gb.FallbackCultureID != "en" {
		t.Errorf("en-GB fallback = %q, want en", gb.FallbackCultureID)
	}
}
