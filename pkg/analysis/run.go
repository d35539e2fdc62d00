package analysis

import (
	"fmt"
	"strings"

	"mercator-hq/valcheck/pkg/analysis/lookupkeys"
	"mercator-hq/valcheck/pkg/analysis/properties"
	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/services"
	"mercator-hq/valcheck/pkg/vcl/ast"
)

// run is the state of one Analyze call.
type run struct {
	a          *Analyzer
	cfg        *ast.Config
	cultures   []string
	lookups    *lookupkeys.Analyzers
	keys       *keyTable
	fields     map[string]*ast.Field
	decls      map[*ast.Field]*dataTypeDecl
	l10n       *properties.L10nChecker
	conditions *properties.ConditionChecker
}

func (r *run) analyze() *results.Tree {
	r.declare()

	tree := &results.Tree{
		Fields:   make([]*results.FieldResult, 0, len(r.cfg.Fields)),
		Cultures: r.cultures,
	}
	seen := make(map[string]*ast.Field, len(r.cfg.Fields))
	for _, f := range r.cfg.Fields {
		tree.Fields = append(tree.Fields, r.analyzeField(f, seen))
	}

	tree.LookupKeys = r.keys.order
	if tree.LookupKeys == nil {
		tree.LookupKeys = []*results.LookupKeyResult{}
	}
	return tree
}

func (r *run) analyzeField(f *ast.Field, seen map[string]*ast.Field) (res *results.FieldResult) {
	res = &results.FieldResult{FieldName: f.Name, Location: f.Location}
	defer func() {
		if p := recover(); p != nil {
			failure := &results.ErrorResult{Source: "analyzer"}
			failure.Report(results.SeverityError, "Analysis of field %q failed: %v", f.Name, p)
			res.Errors = append(res.Errors, failure)
			r.a.logger.Debug("field analysis recovered from panic", "field", f.Name, "panic", p)
		}
	}()

	if prev, dup := seen[f.Name]; dup && f.Name != "" {
		res.Report(results.SeverityError, "Field name %q is already declared at %s.", f.Name, prev.Location)
	} else {
		seen[f.Name] = f
	}

	res.Properties = append(res.Properties, properties.CheckField(f)...)
	r.analyzeDataType(res, f)

	if f.ParserLookupKey != "" {
		if key, node := r.useKey(properties.PropParserLookupKey, f.ParserLookupKey, f.Location); key != "" {
			r.parser(key, f.Location)
			r.mirror(node, key)
			keep(&res.Properties, node)
		}
	}

	if node := r.l10n.Check(properties.PropLabel, properties.PropLabelL10n, f.Label, f.LabelL10n); node != nil {
		res.Properties = append(res.Properties, node)
	}

	codes := make(map[string]bool, len(f.Rules))
	for _, rule := range f.Rules {
		res.Rules = append(res.Rules, r.analyzeRule(f, rule, codes))
	}

	if f.EnablerCondition != nil {
		res.EnablerCondition = r.analyzeCondition(f, f.EnablerCondition, 1)
	}
	return res
}

func (r *run) analyzeDataType(res *results.FieldResult, f *ast.Field) {
	decl := r.decls[f]

	switch {
	case decl.key != "":
		node := &results.PropertyResult{PropertyName: properties.PropDataType, LookupKey: decl.key}
		switch {
		case decl.inferred:
			node.Value = decl.sample
			node.Report(results.SeverityInfo, "Data type %q was inferred from the sample value %v.", decl.key, decl.sample)
		case decl.corrected:
			node.Value = f.DataType
			node.Report(results.SeverityWarning,
				"Lookup key %q does not exactly match %q; %q is used.", f.DataType, decl.key, decl.key)
		default:
			node.Value = f.DataType
		}

		rec := r.keys.record(decl.key, f.Location)
		rec.UsedAsDataType = true
		r.keys.service(rec, func() results.Node { return r.lookups.Identifier(decl.key) }, lookupkeys.ServiceIdentifier)
		r.formatter(decl.key, f.Location)
		if f.AcceptsInput() && strings.TrimSpace(f.ParserLookupKey) == "" {
			r.parser(decl.key, f.Location)
		}
		r.mirror(node, decl.key)
		keep(&res.Properties, node)

	case decl.err != nil:
		node := &results.PropertyResult{PropertyName: properties.PropDataType, Value: decl.sample}
		node.Report(results.SeverityError,
			"The data type could not be inferred from the sample value %v: %v", decl.sample, decl.err)
		res.Properties = append(res.Properties, node)

	case decl.sample != nil:
		node := &results.PropertyResult{PropertyName: properties.PropDataType, Value: decl.sample}
		node.Report(results.SeverityWarning,
			"No identifier recognizes the sample value %v, so the data type could not be inferred.", decl.sample)
		res.Properties = append(res.Properties, node)

	case f.HasRules():
		node := &results.PropertyResult{PropertyName: properties.PropDataType}
		node.Report(results.SeverityWarning,
			"Field %q has no data type and no sample value to infer one from.", f.Name)
		res.Properties = append(res.Properties, node)
	}
}

func (r *run) analyzeRule(f *ast.Field, rule *ast.Rule, codes map[string]bool) *results.RuleResult {
	code := rule.EffectiveErrorCode()
	res := &results.RuleResult{ErrorCode: code, Location: rule.Location}

	if code != "" {
		lower := strings.ToLower(code)
		if codes[lower] {
			res.Report(results.SeverityError, "Error code %q is used by more than one rule of field %q.", code, f.Name)
		}
		codes[lower] = true
	}

	res.Properties = append(res.Properties, properties.CheckRule(rule)...)

	known := properties.BaseTokens
	if rule.Condition != nil {
		if desc := r.a.reg.Conditions.Find(rule.Condition.Type); desc != nil {
			known = properties.KnownTokens(desc.Properties()...)
		}
	}
	r.checkMessage(res, rule.Location, properties.PropErrorMessage, properties.PropErrorMessageL10n,
		rule.ErrorMessage, rule.ErrorMessageL10n, known)
	r.checkMessage(res, rule.Location, properties.PropSummaryMessage, properties.PropSummaryMessageL10n,
		rule.SummaryMessage, rule.SummaryMessageL10n, known)

	if rule.Condition != nil {
		res.Condition = r.analyzeCondition(f, rule.Condition, 1)
	}
	return res
}

// checkMessage checks a message, its localized texts and the formatter keys
// named by their tokens.
func (r *run) checkMessage(res *results.RuleResult, loc ast.Location, prop, l10nProp, text, l10nKey string, known []string) {
	checks := []properties.MessageCheck{properties.CheckMessage(prop, text, known)}

	if node := r.l10n.Check(prop, l10nProp, text, l10nKey); node != nil {
		res.Properties = append(res.Properties, node)
		for _, ct := range node.CultureText {
			if ct.ActualCultureID != "" {
				checks = append(checks, properties.CheckMessage(l10nProp, ct.Text, known))
			}
		}
	}

	seen := make(map[string]bool)
	for _, check := range checks {
		res.Properties = append(res.Properties, check.Nodes...)
		for _, raw := range check.FormatterKeys {
			lower := strings.ToLower(strings.TrimSpace(raw))
			if lower == "" || seen[lower] {
				continue
			}
			seen[lower] = true
			key, node := r.useKey(check.PropertyName, raw, loc)
			r.formatter(key, loc)
			r.mirror(node, key)
			keep(&res.Properties, node)
		}
	}
}

func (r *run) analyzeCondition(f *ast.Field, cond *ast.Condition, depth int) *results.ConditionResult {
	res := &results.ConditionResult{ConditionType: cond.Type, Location: cond.Location}
	if depth > r.a.maxDepth {
		res.Report(results.SeverityError, "Conditions are nested deeper than %d levels.", r.a.maxDepth)
		return res
	}

	if desc := r.conditions.Descriptor(res, cond); desc != nil {
		r.conditions.Check(res, desc, cond)
		r.checkConditionLookupKeys(res, desc, cond, f)
	}

	for _, child := range cond.Children {
		res.Children = append(res.Children, r.analyzeCondition(f, child, depth+1))
	}
	return res
}

func (r *run) checkConditionLookupKeys(res *results.ConditionResult, desc *services.ConditionDescriptor, cond *ast.Condition, f *ast.Field) {
	host := f
	if name := cond.GetStringProperty(services.PropValueHostName); name != "" && r.fields[name] != nil {
		host = r.fields[name]
	}
	hostKey := r.decls[host].key
	hostCtx := &lookupkeys.FieldContext{FieldName: host.Name, DataType: hostKey}

	var second *ast.Field
	var secondKey string
	if name := cond.GetStringProperty(services.PropSecondValueHostName); name != "" && r.fields[name] != nil {
		second = r.fields[name]
		secondKey = r.decls[second].key
	}

	effective := hostKey
	for _, prop := range desc.ConversionProperties {
		raw, _ := cond.Properties[prop].(string)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		key, node := r.useKey(prop, raw, cond.Location)

		source, ctx := hostKey, hostCtx
		if prop == services.PropSecondConversionLookupKey {
			if second == nil {
				keep(&res.Properties, node)
				continue
			}
			source = secondKey
			ctx = &lookupkeys.FieldContext{FieldName: second.Name, DataType: secondKey}
			secondKey = key
		} else {
			effective = key
		}

		if source == "" {
			node.Report(results.SeverityWarning,
				"The converter to %q cannot be checked because the source field has no data type.", key)
			keep(&res.Properties, node)
			continue
		}
		conv, _ := r.keys.service(r.keys.record(key, cond.Location), func() results.Node {
			return r.lookups.Converter(source, key, ctx)
		}, lookupkeys.ServiceConverter, source)
		copyIssue(node, conv.GetIssue(), fmt.Sprintf("Converter from %q to %q", source, key))
		keep(&res.Properties, node)
	}

	if raw, _ := cond.Properties[services.PropComparerLookupKey].(string); strings.TrimSpace(raw) != "" {
		key, node := r.useKey(services.PropComparerLookupKey, raw, cond.Location)
		effective = key
		keep(&res.Properties, node)
	}

	for _, prop := range desc.CompareProperties {
		v, ok := cond.Properties[prop]
		if !ok || v == nil {
			continue
		}
		node := &results.PropertyResult{PropertyName: prop, Value: v, LookupKey: effective}
		if effective == "" {
			node.Report(results.SeverityWarning,
				"The comparer for %q cannot be checked because field %q has no data type.", prop, host.Name)
		} else {
			cmp := r.comparer(effective, lookupkeys.ComparerRequest{LookupKey: effective, SecondValue: v, Field: hostCtx},
				fmt.Sprintf("value:%T", v), cond.Location)
			copyIssue(node, cmp.GetIssue(), fmt.Sprintf("Comparing %q with %v", effective, v))
		}
		if node.HasIssue() {
			res.Properties = append(res.Properties, node)
		}
	}

	if desc.ComparesFields && second != nil {
		node := &results.PropertyResult{PropertyName: services.PropSecondValueHostName, Value: second.Name, LookupKey: effective}
		switch {
		case effective == "" || secondKey == "":
			node.Report(results.SeverityWarning,
				"The comparer between %q and %q cannot be checked because a data type is missing.", host.Name, second.Name)
		default:
			cmp := r.comparer(effective, lookupkeys.ComparerRequest{
				LookupKey:       effective,
				SecondLookupKey: secondKey,
				Field:           hostCtx,
			}, "key:"+secondKey, cond.Location)
			copyIssue(node, cmp.GetIssue(), fmt.Sprintf("Comparing %q with %q", effective, secondKey))
		}
		if node.HasIssue() {
			res.Properties = append(res.Properties, node)
		}
	}
}

// useKey canonicalizes a lookup key held by a property, records it and
// returns a property node referring to it. A near match (case or whitespace)
// is replaced by the canonical key and reported as a warning. Callers keep
// the node once every issue has been copied onto it.
func (r *run) useKey(prop, raw string, loc ast.Location) (string, *results.PropertyResult) {
	key, corrected := r.keys.canonical(raw)
	if key == "" {
		return "", nil
	}
	node := &results.PropertyResult{PropertyName: prop, Value: raw, LookupKey: key}
	if corrected {
		node.Report(results.SeverityWarning, "Lookup key %q does not exactly match %q; %q is used.", raw, key, key)
	}
	r.keys.record(key, loc)
	return key, node
}

// keep appends node to props when it carries an issue. Clean properties
// leave no trace in the tree.
func keep(props *[]results.Node, node *results.PropertyResult) {
	if node != nil && node.HasIssue() {
		*props = append(*props, node)
	}
}

func (r *run) comparer(key string, req lookupkeys.ComparerRequest, variant string, loc ast.Location) results.Node {
	n, _ := r.keys.service(r.keys.record(key, loc), func() results.Node {
		return r.lookups.Comparer(req)
	}, lookupkeys.ServiceComparer, variant)
	return n
}

// formatter analyzes the formatter of key once per run. When no culture has
// a formatter, the key's remap is tried once and recorded under the remap
// key.
func (r *run) formatter(key string, loc ast.Location) *results.FormatterServiceResult {
	rec := r.keys.record(key, loc)
	n, created := r.keys.service(rec, func() results.Node { return r.lookups.Formatter(key) }, lookupkeys.ServiceFormatter)
	res := n.(*results.FormatterServiceResult)
	if !created || !res.TryFallback {
		return res
	}

	remap, ok := r.remap(&res.Issue, key)
	if !ok {
		return res
	}
	res.FallbackLookupKey = remap
	rec.FallbackLookupKey = remap

	retryNode, _ := r.keys.service(r.keys.record(remap, loc), func() results.Node {
		return r.lookups.Formatter(remap)
	}, lookupkeys.ServiceFormatter)
	retry := retryNode.(*results.FormatterServiceResult)

	resolved := false
	for _, pc := range res.Cultures {
		if rc := retry.Culture(pc.RequestedCultureID); pc.NotFound && rc != nil && rc.ClassFound != "" {
			downgrade(&pc.Issue, fmt.Sprintf("%s Lookup key %q is used instead.", pc.Message, remap))
			resolved = true
		}
	}
	if resolved {
		downgrade(&res.Issue, fmt.Sprintf("%s Fallback lookup key %q is used instead.", res.Message, remap))
	}
	return res
}

// parser mirrors formatter for parsers.
func (r *run) parser(key string, loc ast.Location) *results.ParserServiceResult {
	rec := r.keys.record(key, loc)
	n, created := r.keys.service(rec, func() results.Node { return r.lookups.Parser(key) }, lookupkeys.ServiceParser)
	res := n.(*results.ParserServiceResult)
	if !created || !res.TryFallback {
		return res
	}

	remap, ok := r.remap(&res.Issue, key)
	if !ok {
		return res
	}
	res.FallbackLookupKey = remap
	rec.FallbackLookupKey = remap

	retryNode, _ := r.keys.service(r.keys.record(remap, loc), func() results.Node {
		return r.lookups.Parser(remap)
	}, lookupkeys.ServiceParser)
	retry := retryNode.(*results.ParserServiceResult)

	resolved := false
	for _, pc := range res.Cultures {
		if rc := retry.Culture(pc.RequestedCultureID); pc.NotFound && rc != nil && len(rc.Matches) > 0 {
			downgrade(&pc.Issue, fmt.Sprintf("%s Lookup key %q is used instead.", pc.Message, remap))
			resolved = true
		}
	}
	if resolved {
		downgrade(&res.Issue, fmt.Sprintf("%s Fallback lookup key %q is used instead.", res.Message, remap))
	}
	return res
}

// remap returns the canonical remap of key. A failing fallback service is
// reported on issue.
func (r *run) remap(issue *results.Issue, key string) (string, bool) {
	raw, err := r.lookups.Remap(key)
	if err != nil {
		issue.Report(results.SeverityError, "%s The fallback lookup key could not be resolved: %v", issue.Message, err)
		return "", false
	}
	remap, _ := r.keys.canonical(raw)
	if remap == "" || strings.EqualFold(remap, key) {
		return "", false
	}
	return remap, true
}

// mirror copies the most severe service issue of key's record onto node so
// searches scoped to a field see it.
func (r *run) mirror(node *results.PropertyResult, key string) {
	if node == nil {
		return
	}
	rec := r.keys.record(key, ast.Location{})
	var worst *results.Issue
	for _, s := range rec.Services {
		issue := s.GetIssue()
		if issue.Severity.AtLeast(results.SeverityWarning) && (worst == nil || issue.Severity.Rank() > worst.Severity.Rank()) {
			worst = issue
		}
	}
	if worst != nil {
		copyIssue(node, worst, fmt.Sprintf("Lookup key %q", key))
	}
}

// copyIssue reports a warning or error from issue on node, prefixed by context.
func copyIssue(node *results.PropertyResult, issue *results.Issue, context string) {
	if node == nil || !issue.Severity.AtLeast(results.SeverityWarning) {
		return
	}
	node.Report(issue.Severity, "%s: %s", context, issue.Message)
}

// downgrade lowers an error to a warning with a new message.
func downgrade(issue *results.Issue, message string) {
	if issue.Severity == results.SeverityError {
		issue.Severity = results.SeverityWarning
		issue.Message = message
	}
}
