package search

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"mercator-hq/valcheck/pkg/analysis/results"
)

func cond(conditionType string, children ...*results.ConditionResult) *results.ConditionResult {
	return &results.ConditionResult{ConditionType: conditionType, Children: children}
}

// nestedTree is field -> rule -> all -> not -> regExp.
func nestedTree() *results.Tree {
	return &results.Tree{
		Fields: []*results.FieldResult{{
			FieldName: "age",
			Rules: []*results.RuleResult{{
				ErrorCode: "E1",
				Condition: cond("all", cond("not", cond("regExp"))),
			}},
		}},
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name    string
		matches []Match
		want    Match
	}{
		{"empty", nil, NotApplicable},
		{"all not applicable", []Match{NotApplicable, NotApplicable}, NotApplicable},
		{"one matched", []Match{NotApplicable, Matched}, Matched},
		{"mismatch wins", []Match{Matched, Mismatch, Matched}, Mismatch},
		{"mismatch alone", []Match{Mismatch, NotApplicable}, Mismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Combine(tt.matches...); got != tt.want {
				t.Errorf("Combine() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCollect_PathSuffixing(t *testing.T) {
	found := Collect(nestedTree(), Criteria{Kinds: []results.Kind{results.KindRule, results.KindCondition}})

	want := []string{
		"field=age/rule=E1",
		"field=age/rule=E1/condition=all",
		"field=age/rule=E1/condition=all/condition#2=not",
		"field=age/rule=E1/condition=all/condition#2=not/condition#3=regExp",
	}
	if len(found) != len(want) {
		t.Fatalf("Collect() returned %d results, want %d", len(found), len(want))
	}
	for i, r := range found {
		if got := r.Path.String(); got != want[i] {
			t.Errorf("result %d path = %s, want %s", i, got, want[i])
		}
	}

	last := found[3].Path
	if id, ok := last.Get("condition#2"); !ok || id != "not" {
		t.Errorf("Get(condition#2) = %q, %v", id, ok)
	}
	if parent, ok := last.Parent().(*results.ConditionResult); !ok || parent.ConditionType != "not" {
		t.Errorf("Parent() = %v", last.Parent())
	}

	data, err := json.Marshal(last)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	wantJSON := `{"field":"age","rule":"E1","condition":"all","condition#2":"not","condition#3":"regExp"}`
	if string(data) != wantJSON {
		t.Errorf("Marshal() = %s, want %s", data, wantJSON)
	}
}

func TestPath_NullIdentifier(t *testing.T) {
	lk := &results.LookupKeyResult{
		LookupKey: "Custom",
		Services:  []results.Node{&results.FormatterServiceResult{}},
	}
	found := NewSearcher(Criteria{Kinds: []results.Kind{results.KindFormatterService}}).Collect(lk)
	if len(found) != 1 {
		t.Fatalf("Collect() returned %d results, want 1", len(found))
	}
	data, err := json.Marshal(found[0].Path)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"lookupKey":"Custom","formatterService":null}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestCollect_SkipChildrenIfParentMismatch(t *testing.T) {
	parent := cond("all", cond("requireText"), cond("requireText"))

	tests := []struct {
		name          string
		skip          bool
		wantResults   int
		wantEvaluated int
	}{
		{"pruned", true, 0, 1},
		{"not pruned", false, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluated := 0
			s := NewSearcher(Criteria{
				ConditionTypes:               []string{"requireText"},
				SkipChildrenIfParentMismatch: tt.skip,
			}).WithTrace(func(results.Node, Path, Match) { evaluated++ })

			found := s.Collect(parent)
			if len(found) != tt.wantResults {
				t.Errorf("Collect() returned %d results, want %d", len(found), tt.wantResults)
			}
			if evaluated != tt.wantEvaluated {
				t.Errorf("evaluated %d nodes, want %d", evaluated, tt.wantEvaluated)
			}
		})
	}
}

func TestCollect_NotApplicableDoesNotPrune(t *testing.T) {
	field := &results.FieldResult{
		FieldName: "age",
		Rules:     []*results.RuleResult{{ErrorCode: "E1", Condition: cond("requireText")}},
	}
	// The condition-type criterion does not pertain to fields or rules.
	s := NewSearcher(Criteria{ConditionTypes: []string{"requireText"}, SkipChildrenIfParentMismatch: true})
	if got := s.Count(field); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
}

func TestFindOne_ShortCircuits(t *testing.T) {
	first, second, third := cond("requireText"), cond("requireText"), cond("requireText")
	root := cond("all", first, second, third)

	var evaluated []results.Node
	s := NewSearcher(Criteria{ConditionTypes: []string{"requireText"}}).
		WithTrace(func(n results.Node, _ Path, _ Match) { evaluated = append(evaluated, n) })

	found := s.FindOne(root)
	if found == nil || found.Node != first {
		t.Fatalf("FindOne() = %v, want the first sibling", found)
	}
	if len(evaluated) != 2 {
		t.Errorf("evaluated %d nodes, want 2", len(evaluated))
	}
	for _, n := range evaluated {
		if n == second || n == third {
			t.Error("FindOne() evaluated a sibling after the first match")
		}
	}

	if !s.HasMatch(root) {
		t.Error("HasMatch() = false")
	}
	if NewSearcher(Criteria{ConditionTypes: []string{"range"}}).FindOne(root) != nil {
		t.Error("FindOne() found a node that does not match")
	}
}

func TestEvaluate_ServiceNodes(t *testing.T) {
	perCulture := &results.FormatterForCultureResult{
		ServiceOutcome:     results.ServiceOutcome{ClassFound: "BooleanFormatter"},
		RequestedCultureID: "en-GB",
		ActualCultureID:    "en",
	}
	perCulture.Report(results.SeverityInfo, "found through fallback")

	tests := []struct {
		name     string
		criteria Criteria
		want     Match
	}{
		{"family", Criteria{ServiceNames: []string{"FORMATTER"}}, Matched},
		{"class", Criteria{ServiceNames: []string{"booleanformatter"}}, Matched},
		{"other family", Criteria{ServiceNames: []string{"parser"}}, Mismatch},
		{"requested culture", Criteria{CultureIDs: []string{"en-gb"}}, Matched},
		{"actual culture", Criteria{CultureIDs: []string{"en"}}, Matched},
		{"culture mismatch", Criteria{CultureIDs: []string{"fr"}}, Mismatch},
		{"inapplicable", Criteria{FieldNames: []string{"age"}}, NotApplicable},
		{"severity", Criteria{Severities: []results.Severity{results.SeverityInfo}}, Matched},
		{"mismatch masks match", Criteria{CultureIDs: []string{"en"}, Severities: []results.Severity{results.SeverityError}}, Mismatch},
		{"empty", Criteria{}, NotApplicable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSearcher(tt.criteria).Evaluate(perCulture); got != tt.want {
				t.Errorf("Evaluate() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSeverityFilter_SkipsCleanNodes(t *testing.T) {
	missing := &results.FormatterServiceResult{NotFound: true}
	missing.Report(results.SeverityError, "no formatter")
	tree := &results.Tree{
		Fields: []*results.FieldResult{
			{FieldName: "qty", Rules: []*results.RuleResult{{ErrorCode: "Q1"}}},
			{FieldName: "due"},
		},
		LookupKeys: []*results.LookupKeyResult{
			{LookupKey: "Integer", Services: []results.Node{&results.FormatterServiceResult{}, &results.ParserServiceResult{}}},
			{LookupKey: "Custom", Services: []results.Node{missing}},
		},
	}
	tree.Fields[1].Report(results.SeverityError, "broken")
	errorsOnly := []results.Severity{results.SeverityError}

	tests := []struct {
		name     string
		criteria Criteria
		want     int
	}{
		{"fields", Criteria{Kinds: []results.Kind{results.KindField}, Severities: errorsOnly}, 1},
		{"lookup services", Criteria{
			Kinds:      []results.Kind{results.KindLookupKey, results.KindFormatterService, results.KindParserService},
			Severities: errorsOnly,
		}, 1},
		{"warnings", Criteria{Severities: []results.Severity{results.SeverityWarning}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := Collect(tree, tt.criteria)
			if len(found) != tt.want {
				t.Fatalf("Collect() returned %d nodes, want %d", len(found), tt.want)
			}
			for _, r := range found {
				if r.Node.GetIssue().Severity != results.SeverityError {
					t.Errorf("matched %s with severity %q", r.Path, r.Node.GetIssue().Severity)
				}
			}
		})
	}

	byName := func(name string) *Searcher {
		return NewSearcher(Criteria{FieldNames: []string{name}, Severities: errorsOnly})
	}
	if byName("qty").HasMatch(tree.Fields[0]) {
		t.Error("HasMatch() = true for a clean field")
	}
	if !byName("due").HasMatch(tree.Fields[1]) {
		t.Error("HasMatch() = false for a failing field")
	}
}

func TestEvaluate_SeverityRejectsCleanNode(t *testing.T) {
	s := NewSearcher(Criteria{Severities: []results.Severity{results.SeverityError}})
	if got := s.Evaluate(&results.FieldResult{FieldName: "age"}); got != Mismatch {
		t.Errorf("Evaluate() = %s, want mismatch", got)
	}
}

// fixtureNodes covers every kind with identifying values drawn from the pools
// used by TestEvaluate_ThreeValuedLaw.
func fixtureNodes() []results.Node {
	withIssue := func(n results.Node, s results.Severity) results.Node {
		n.GetIssue().Report(s, "fixture")
		return n
	}
	return []results.Node{
		withIssue(&results.FieldResult{FieldName: "age"}, results.SeverityError),
		&results.FieldResult{FieldName: "name"},
		withIssue(&results.RuleResult{ErrorCode: "E1"}, results.SeverityWarning),
		&results.ConditionResult{ConditionType: "range"},
		withIssue(&results.PropertyResult{PropertyName: "data_type", LookupKey: "Integer"}, results.SeverityInfo),
		&results.PropertyResult{PropertyName: "label"},
		&results.L10nPropertyResult{PropertyName: "label", L10nPropertyName: "label_l10n"},
		&results.LookupKeyResult{LookupKey: "Integer"},
		&results.IdentifierServiceResult{ServiceOutcome: results.ServiceOutcome{ClassFound: "IntegerIdentifier"}},
		&results.ConverterServiceResult{SourceLookupKey: "Integer", TargetLookupKey: "Number"},
		&results.ComparerServiceResult{ServiceOutcome: results.ServiceOutcome{ClassFound: "NumberComparer"}},
		withIssue(&results.FormatterServiceResult{NotFound: true}, results.SeverityError),
		&results.FormatterForCultureResult{RequestedCultureID: "en-GB", ActualCultureID: "en"},
		&results.ParserServiceResult{},
		&results.ParserForCultureResult{RequestedCultureID: "fr"},
		&results.ParserMatchResult{ServiceOutcome: results.ServiceOutcome{ClassFound: "NumberParser"}},
		withIssue(&results.ErrorResult{Source: "panic"}, results.SeverityError),
	}
}

func pick[T any](r *rand.Rand, pool []T) []T {
	if r.IntN(2) == 0 {
		return nil
	}
	var out []T
	for _, v := range pool {
		if r.IntN(2) == 0 {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		out = append(out, pool[r.IntN(len(pool))])
	}
	return out
}

// singleDimension splits c into one criteria set per specified dimension.
func singleDimension(c Criteria) []Criteria {
	var parts []Criteria
	add := func(ok bool, part Criteria) {
		if ok {
			parts = append(parts, part)
		}
	}
	add(len(c.Kinds) > 0, Criteria{Kinds: c.Kinds})
	add(len(c.Severities) > 0, Criteria{Severities: c.Severities})
	add(len(c.FieldNames) > 0, Criteria{FieldNames: c.FieldNames})
	add(len(c.ErrorCodes) > 0, Criteria{ErrorCodes: c.ErrorCodes})
	add(len(c.ConditionTypes) > 0, Criteria{ConditionTypes: c.ConditionTypes})
	add(len(c.PropertyNames) > 0, Criteria{PropertyNames: c.PropertyNames})
	add(len(c.LookupKeys) > 0, Criteria{LookupKeys: c.LookupKeys})
	add(len(c.CultureIDs) > 0, Criteria{CultureIDs: c.CultureIDs})
	add(len(c.ServiceNames) > 0, Criteria{ServiceNames: c.ServiceNames})
	return parts
}

func TestEvaluate_ThreeValuedLaw(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 42))
	nodes := fixtureNodes()
	seen := map[Match]bool{}

	for i := 0; i < 2000; i++ {
		c := Criteria{
			Kinds:          pick(r, results.AllKinds),
			Severities:     pick(r, []results.Severity{results.SeverityInfo, results.SeverityWarning, results.SeverityError}),
			FieldNames:     pick(r, []string{"age", "NAME", "zip"}),
			ErrorCodes:     pick(r, []string{"E1", "e2"}),
			ConditionTypes: pick(r, []string{"range", "regExp"}),
			PropertyNames:  pick(r, []string{"data_type", "label_l10n", "other"}),
			LookupKeys:     pick(r, []string{"integer", "Number", "Date"}),
			CultureIDs:     pick(r, []string{"en", "fr", "de"}),
			ServiceNames:   pick(r, []string{"formatter", "parser", "NumberComparer", "IntegerIdentifier"}),
		}
		s := NewSearcher(c)
		parts := singleDimension(c)

		for _, n := range nodes {
			var perDimension []Match
			anyMismatch, anyMatched := false, false
			for _, part := range parts {
				m := NewSearcher(part).Evaluate(n)
				perDimension = append(perDimension, m)
				anyMismatch = anyMismatch || m == Mismatch
				anyMatched = anyMatched || m == Matched
			}

			want := NotApplicable
			switch {
			case anyMismatch:
				want = Mismatch
			case anyMatched:
				want = Matched
			}

			got := s.Evaluate(n)
			seen[got] = true
			if got != want {
				t.Fatalf("iteration %d, %s: Evaluate() = %s, per-dimension %v, want %s",
					i, n.Kind(), got, perDimension, want)
			}
		}
	}

	for _, m := range []Match{NotApplicable, Mismatch, Matched} {
		if !seen[m] {
			t.Errorf("no evaluation produced %s", m)
		}
	}
}

type customNode struct {
	results.Issue
}

func (*customNode) Kind() results.Kind { return "custom" }

func TestRegistry_UnregisteredKindPanics(t *testing.T) {
	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok {
			t.Fatalf("recover() = %v, want an error", rec)
		}
		var unregistered *UnregisteredKindError
		if !errors.As(err, &unregistered) || unregistered.Kind != "custom" {
			t.Errorf("panic value = %v", err)
		}
		if !strings.Contains(err.Error(), "custom") {
			t.Errorf("Error() = %q", err.Error())
		}
	}()

	NewSearcher(Criteria{}).Collect(&customNode{})
	t.Fatal("Collect() did not panic")
}

func TestRegistry_CustomKind(t *testing.T) {
	r := NewRegistry()
	r.Register(&NodeType{
		Kind:       "custom",
		Identifier: noIdentifier,
		Children:   noChildren,
	})
	if !r.Has("custom") || r.Has(results.KindField) {
		t.Fatal("Has() reports the wrong kinds")
	}

	s := NewSearcher(Criteria{Kinds: []results.Kind{"custom"}}).WithRegistry(r)
	if got := s.Count(&customNode{}); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
}

func TestCriteria_Validate(t *testing.T) {
	valid := Criteria{Kinds: []results.Kind{results.KindField}, Severities: []results.Severity{results.SeverityError}}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if valid.IsEmpty() {
		t.Error("IsEmpty() = true")
	}

	for _, c := range []Criteria{
		{Kinds: []results.Kind{"rules"}},
		{Severities: []results.Severity{"fatal"}},
		{Severities: []results.Severity{results.SeverityNone}},
	} {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", c)
		}
	}
}
