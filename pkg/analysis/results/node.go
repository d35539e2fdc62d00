package results

import (
	"fmt"

	"mercator-hq/valcheck/pkg/vcl/ast"
)

// Node is implemented by every diagnostic tree node.
type Node interface {
	Kind() Kind
	GetIssue() *Issue
}

// Locatable is implemented by nodes that carry a source location.
type Locatable interface {
	SourceLocation() ast.Location
}

// Issue is the severity and message shared by all nodes.
type Issue struct {
	Severity Severity `json:"severity,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// GetIssue returns the embedded issue.
func (i *Issue) GetIssue() *Issue { return i }

// Report sets the issue unless a more severe one is already recorded.
func (i *Issue) Report(severity Severity, format string, args ...any) {
	if i.Severity.Rank() > severity.Rank() {
		return
	}
	i.Severity = severity
	i.Message = fmt.Sprintf(format, args...)
}

// HasIssue reports whether a severity is set.
func (i *Issue) HasIssue() bool { return i.Severity != SeverityNone }

// ServiceOutcome is the result of asking one service for an implementation.
type ServiceOutcome struct {
	// ClassFound names the implementation; empty when none was found.
	ClassFound string `json:"classFound,omitempty"`
	// Instance is the implementation itself and is not serialized.
	Instance any  `json:"-"`
	NotFound bool `json:"notFound,omitempty"`
}

// FieldResult is the analysis of one field.
type FieldResult struct {
	Issue
	FieldName        string           `json:"fieldName"`
	Location         ast.Location     `json:"location"`
	Properties       []Node           `json:"properties,omitempty"`
	Rules            []*RuleResult    `json:"rules,omitempty"`
	EnablerCondition *ConditionResult `json:"enablerCondition,omitempty"`
	Errors           []*ErrorResult   `json:"errors,omitempty"`
}

func (*FieldResult) Kind() Kind                     { return KindField }
func (r *FieldResult) SourceLocation() ast.Location { return r.Location }

// RuleResult is the analysis of one rule.
type RuleResult struct {
	Issue
	ErrorCode  string           `json:"errorCode"`
	Location   ast.Location     `json:"location"`
	Properties []Node           `json:"properties,omitempty"`
	Condition  *ConditionResult `json:"condition,omitempty"`
}

func (*RuleResult) Kind() Kind                     { return KindRule }
func (r *RuleResult) SourceLocation() ast.Location { return r.Location }

// ConditionResult is the analysis of one condition and its children.
type ConditionResult struct {
	Issue
	ConditionType string             `json:"conditionType"`
	Location      ast.Location       `json:"location"`
	Properties    []Node             `json:"properties,omitempty"`
	Children      []*ConditionResult `json:"children,omitempty"`
}

func (*ConditionResult) Kind() Kind                     { return KindCondition }
func (r *ConditionResult) SourceLocation() ast.Location { return r.Location }

// PropertyResult reports on a single property. LookupKey is set when the
// property holds a lookup key; its service outcomes live on the tree's
// lookup-key record.
type PropertyResult struct {
	Issue
	PropertyName string `json:"propertyName"`
	Value        any    `json:"value,omitempty"`
	LookupKey    string `json:"lookupKey,omitempty"`
}

func (*PropertyResult) Kind() Kind { return KindProperty }

// CultureText is the outcome of localizing a text for one culture.
type CultureText struct {
	CultureID       string   `json:"cultureId"`
	ActualCultureID string   `json:"actualCultureId,omitempty"`
	Text            string   `json:"text,omitempty"`
	Severity        Severity `json:"severity,omitempty"`
	Message         string   `json:"message,omitempty"`
}

// L10nPropertyResult reports on a text property paired with a localization key.
type L10nPropertyResult struct {
	Issue
	PropertyName     string        `json:"propertyName"`
	L10nPropertyName string        `json:"l10nPropertyName"`
	L10nKey          string        `json:"l10nKey,omitempty"`
	CultureText      []CultureText `json:"cultureText,omitempty"`
}

func (*L10nPropertyResult) Kind() Kind { return KindL10nProperty }

// LookupKeyResult is the record kept for one distinct lookup key.
type LookupKeyResult struct {
	Issue
	LookupKey string `json:"lookupKey"`
	// UsedAsDataType is set when a field declares the key as its data type.
	UsedAsDataType bool `json:"usedAsDataType,omitempty"`
	// FallbackLookupKey is the remap used after every service failed.
	FallbackLookupKey string `json:"fallbackLookupKey,omitempty"`
	// Location is where the key was first referenced.
	Location ast.Location `json:"location"`
	Services []Node       `json:"services,omitempty"`
}

func (*LookupKeyResult) Kind() Kind                     { return KindLookupKey }
func (r *LookupKeyResult) SourceLocation() ast.Location { return r.Location }

// IdentifierServiceResult is the identifier lookup for a key.
type IdentifierServiceResult struct {
	Issue
	ServiceOutcome
}

func (*IdentifierServiceResult) Kind() Kind { return KindIdentifierService }

// ConverterServiceResult is the converter lookup between two keys.
type ConverterServiceResult struct {
	Issue
	ServiceOutcome
	SourceLookupKey string `json:"sourceLookupKey"`
	TargetLookupKey string `json:"targetLookupKey"`
}

func (*ConverterServiceResult) Kind() Kind { return KindConverterService }

// ComparerServiceResult is the comparer lookup for a key and a second key.
type ComparerServiceResult struct {
	Issue
	ServiceOutcome
	SecondLookupKey string `json:"secondLookupKey,omitempty"`
}

func (*ComparerServiceResult) Kind() Kind { return KindComparerService }

// FormatterServiceResult collects the per-culture formatter lookups for a key.
type FormatterServiceResult struct {
	Issue
	Cultures          []*FormatterForCultureResult `json:"cultures,omitempty"`
	NotFound          bool                         `json:"notFound,omitempty"`
	TryFallback       bool                         `json:"tryFallback,omitempty"`
	FallbackLookupKey string                       `json:"fallbackLookupKey,omitempty"`
}

func (*FormatterServiceResult) Kind() Kind { return KindFormatterService }

// FormatterForCultureResult is the formatter found for one requested culture,
// possibly through culture fallback.
type FormatterForCultureResult struct {
	Issue
	ServiceOutcome
	RequestedCultureID string `json:"requestedCultureId"`
	ActualCultureID    string `json:"actualCultureId,omitempty"`
}

func (*FormatterForCultureResult) Kind() Kind { return KindFormatterForCulture }

// ParserServiceResult collects the per-culture parser lookups for a key.
type ParserServiceResult struct {
	Issue
	Cultures          []*ParserForCultureResult `json:"cultures,omitempty"`
	NotFound          bool                      `json:"notFound,omitempty"`
	TryFallback       bool                      `json:"tryFallback,omitempty"`
	FallbackLookupKey string                    `json:"fallbackLookupKey,omitempty"`
}

func (*ParserServiceResult) Kind() Kind { return KindParserService }

// ParserForCultureResult lists every parser compatible with one requested
// culture, possibly through culture fallback.
type ParserForCultureResult struct {
	Issue
	RequestedCultureID string               `json:"requestedCultureId"`
	ActualCultureID    string               `json:"actualCultureId,omitempty"`
	NotFound           bool                 `json:"notFound,omitempty"`
	Matches            []*ParserMatchResult `json:"matches,omitempty"`
}

func (*ParserForCultureResult) Kind() Kind { return KindParserForCulture }

// ParserMatchResult is one compatible parser.
type ParserMatchResult struct {
	Issue
	ServiceOutcome
}

func (*ParserMatchResult) Kind() Kind { return KindParserMatch }

// ErrorResult is a generic error attached to a field, such as a recovered
// failure of a property check.
type ErrorResult struct {
	Issue
	Source string `json:"source,omitempty"`
}

func (*ErrorResult) Kind() Kind { return KindError }
