package search

import "mercator-hq/valcheck/pkg/analysis/results"

// Service family names accepted by the service-name criterion.
const (
	FamilyIdentifier = "identifier"
	FamilyConverter  = "converter"
	FamilyComparer   = "comparer"
	FamilyFormatter  = "formatter"
	FamilyParser     = "parser"
)

func noIdentifier(results.Node) string { return "" }

func noChildren(results.Node) []results.Node { return nil }

func appendNodes[T results.Node](dst []results.Node, nodes ...T) []results.Node {
	for _, n := range nodes {
		dst = append(dst, n)
	}
	return dst
}

// serviceName matches the family name or the class found.
func serviceName(family string, class func(results.Node) string) Criterion {
	return func(node results.Node, c *Criteria) Match {
		return matchAny(c.ServiceNames, family, class(node))
	}
}

func builtinNodeTypes() []*NodeType {
	return []*NodeType{
		{
			Kind:       results.KindField,
			Identifier: func(n results.Node) string { return n.(*results.FieldResult).FieldName },
			Children: func(n results.Node) []results.Node {
				f := n.(*results.FieldResult)
				children := append([]results.Node(nil), f.Properties...)
				children = appendNodes(children, f.Rules...)
				if f.EnablerCondition != nil {
					children = append(children, f.EnablerCondition)
				}
				return appendNodes(children, f.Errors...)
			},
			Criteria: []Criterion{
				func(n results.Node, c *Criteria) Match {
					return matchString(c.FieldNames, n.(*results.FieldResult).FieldName)
				},
			},
		},
		{
			Kind:       results.KindRule,
			Identifier: func(n results.Node) string { return n.(*results.RuleResult).ErrorCode },
			Children: func(n results.Node) []results.Node {
				r := n.(*results.RuleResult)
				children := append([]results.Node(nil), r.Properties...)
				if r.Condition != nil {
					children = append(children, r.Condition)
				}
				return children
			},
			Criteria: []Criterion{
				func(n results.Node, c *Criteria) Match {
					return matchString(c.ErrorCodes, n.(*results.RuleResult).ErrorCode)
				},
			},
		},
		{
			Kind:       results.KindCondition,
			Identifier: func(n results.Node) string { return n.(*results.ConditionResult).ConditionType },
			Children: func(n results.Node) []results.Node {
				cond := n.(*results.ConditionResult)
				children := append([]results.Node(nil), cond.Properties...)
				return appendNodes(children, cond.Children...)
			},
			Criteria: []Criterion{
				func(n results.Node, c *Criteria) Match {
					return matchString(c.ConditionTypes, n.(*results.ConditionResult).ConditionType)
				},
			},
		},
		{
			Kind:       results.KindProperty,
			Identifier: func(n results.Node) string { return n.(*results.PropertyResult).PropertyName },
			Children:   noChildren,
			Criteria: []Criterion{
				func(n results.Node, c *Criteria) Match {
					return matchString(c.PropertyNames, n.(*results.PropertyResult).PropertyName)
				},
				func(n results.Node, c *Criteria) Match {
					p := n.(*results.PropertyResult)
					if p.LookupKey == "" {
						return NotApplicable
					}
					return matchString(c.LookupKeys, p.LookupKey)
				},
			},
		},
		{
			Kind:       results.KindL10nProperty,
			Identifier: func(n results.Node) string { return n.(*results.L10nPropertyResult).PropertyName },
			Children:   noChildren,
			Criteria: []Criterion{
				func(n results.Node, c *Criteria) Match {
					p := n.(*results.L10nPropertyResult)
					return matchAny(c.PropertyNames, p.PropertyName, p.L10nPropertyName)
				},
			},
		},
		{
			Kind:       results.KindLookupKey,
			Identifier: func(n results.Node) string { return n.(*results.LookupKeyResult).LookupKey },
			Children: func(n results.Node) []results.Node {
				return append([]results.Node(nil), n.(*results.LookupKeyResult).Services...)
			},
			Criteria: []Criterion{
				func(n results.Node, c *Criteria) Match {
					return matchString(c.LookupKeys, n.(*results.LookupKeyResult).LookupKey)
				},
			},
		},
		{
			Kind:       results.KindIdentifierService,
			Identifier: func(n results.Node) string { return n.(*results.IdentifierServiceResult).ClassFound },
			Children:   noChildren,
			Criteria: []Criterion{
				serviceName(FamilyIdentifier, func(n results.Node) string {
					return n.(*results.IdentifierServiceResult).ClassFound
				}),
			},
		},
		{
			Kind:       results.KindConverterService,
			Identifier: func(n results.Node) string { return n.(*results.ConverterServiceResult).ClassFound },
			Children:   noChildren,
			Criteria: []Criterion{
				serviceName(FamilyConverter, func(n results.Node) string {
					return n.(*results.ConverterServiceResult).ClassFound
				}),
				func(n results.Node, c *Criteria) Match {
					r := n.(*results.ConverterServiceResult)
					return matchAny(c.LookupKeys, r.SourceLookupKey, r.TargetLookupKey)
				},
			},
		},
		{
			Kind:       results.KindComparerService,
			Identifier: func(n results.Node) string { return n.(*results.ComparerServiceResult).ClassFound },
			Children:   noChildren,
			Criteria: []Criterion{
				serviceName(FamilyComparer, func(n results.Node) string {
					return n.(*results.ComparerServiceResult).ClassFound
				}),
			},
		},
		{
			Kind:       results.KindFormatterService,
			Identifier: noIdentifier,
			Children: func(n results.Node) []results.Node {
				return appendNodes(nil, n.(*results.FormatterServiceResult).Cultures...)
			},
			Criteria: []Criterion{
				serviceName(FamilyFormatter, noIdentifier),
			},
		},
		{
			Kind:       results.KindFormatterForCulture,
			Identifier: func(n results.Node) string { return n.(*results.FormatterForCultureResult).RequestedCultureID },
			Children:   noChildren,
			Criteria: []Criterion{
				serviceName(FamilyFormatter, func(n results.Node) string {
					return n.(*results.FormatterForCultureResult).ClassFound
				}),
				func(n results.Node, c *Criteria) Match {
					r := n.(*results.FormatterForCultureResult)
					return matchAny(c.CultureIDs, r.RequestedCultureID, r.ActualCultureID)
				},
			},
		},
		{
			Kind:       results.KindParserService,
			Identifier: noIdentifier,
			Children: func(n results.Node) []results.Node {
				return appendNodes(nil, n.(*results.ParserServiceResult).Cultures...)
			},
			Criteria: []Criterion{
				serviceName(FamilyParser, noIdentifier),
			},
		},
		{
			Kind:       results.KindParserForCulture,
			Identifier: func(n results.Node) string { return n.(*results.ParserForCultureResult).RequestedCultureID },
			Children: func(n results.Node) []results.Node {
				return appendNodes(nil, n.(*results.ParserForCultureResult).Matches...)
			},
			Criteria: []Criterion{
				serviceName(FamilyParser, noIdentifier),
				func(n results.Node, c *Criteria) Match {
					r := n.(*results.ParserForCultureResult)
					return matchAny(c.CultureIDs, r.RequestedCultureID, r.ActualCultureID)
				},
			},
		},
		{
			Kind:       results.KindParserMatch,
			Identifier: func(n results.Node) string { return n.(*results.ParserMatchResult).ClassFound },
			Children:   noChildren,
			Criteria: []Criterion{
				serviceName(FamilyParser, func(n results.Node) string {
					return n.(*results.ParserMatchResult).ClassFound
				}),
			},
		},
		{
			Kind:       results.KindError,
			Identifier: noIdentifier,
			Children:   noChildren,
		},
	}
}
