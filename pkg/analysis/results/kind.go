package results

// Kind discriminates the node types of the diagnostic tree.
type Kind string

const (
	KindField               Kind = "field"
	KindRule                Kind = "rule"
	KindCondition           Kind = "condition"
	KindProperty            Kind = "property"
	KindL10nProperty        Kind = "l10nProperty"
	KindLookupKey           Kind = "lookupKey"
	KindIdentifierService   Kind = "identifierService"
	KindConverterService    Kind = "converterService"
	KindComparerService     Kind = "comparerService"
	KindFormatterService    Kind = "formatterService"
	KindFormatterForCulture Kind = "formatterForCulture"
	KindParserService       Kind = "parserService"
	KindParserForCulture    Kind = "parserForCulture"
	KindParserMatch         Kind = "parserMatch"
	KindError               Kind = "error"
)

// AllKinds lists every kind in tree order.
var AllKinds = []Kind{
	KindField, KindRule, KindCondition, KindProperty, KindL10nProperty,
	KindLookupKey, KindIdentifierService, KindConverterService, KindComparerService,
	KindFormatterService, KindFormatterForCulture, KindParserService,
	KindParserForCulture, KindParserMatch, KindError,
}

// Severity is the severity of a node's issue. The zero value means no issue.
type Severity string

const (
	SeverityNone    Severity = ""
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank orders severities: none < info < warning < error.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	}
	return 0
}

// AtLeast reports whether s is as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// IsValid reports whether s is one of the defined severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityNone, SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

func (s Severity) String() string {
	if s == SeverityNone {
		return "none"
	}
	return string(s)
}
