package ast

import "testing"

func TestConfig_FieldLookup(t *testing.T) {
	cfg := &Config{
		Fields: []*Field{
			{Name: "age", Rules: []*Rule{{ErrorCode: "required"}}},
			{Name: ""},
			{Name: "email", Rules: []*Rule{{}, {}}},
		},
	}

	if !cfg.HasField("age") {
		t.Error("expected field 'age' to be found")
	}
	if cfg.HasField("missing") {
		t.Error("did not expect field 'missing' to be found")
	}

	names := cfg.FieldNames()
	if len(names) != 2 || names[0] != "age" || names[1] != "email" {
		t.Errorf("FieldNames() = %v, want [age email]", names)
	}

	if got := cfg.RuleCount(); got != 3 {
		t.Errorf("RuleCount() = %d, want 3", got)
	}
}

func TestRule_EffectiveErrorCode(t *testing.T) {
	tests := []struct {
		name string
		rule *Rule
		want string
	}{
		{"explicit", &Rule{ErrorCode: "tooBig", Condition: &Condition{Type: "range"}}, "tooBig"},
		{"from condition", &Rule{Condition: &Condition{Type: "requireText"}}, "requireText"},
		{"nothing", &Rule{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.EffectiveErrorCode(); got != tt.want {
				t.Errorf("EffectiveErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCondition_Depth(t *testing.T) {
	cond := &Condition{
		Type: "all",
		Children: []*Condition{
			{Type: "requireText"},
			{Type: "any", Children: []*Condition{{Type: "not", Children: []*Condition{{Type: "regExp"}}}}},
		},
	}

	if got := cond.Depth(); got != 4 {
		t.Errorf("Depth() = %d, want 4", got)
	}
}

type countingVisitor struct {
	fields, rules, conditions int
	maxDepth                  int
}

func (v *countingVisitor) VisitConfig(*Config) error { return nil }
func (v *countingVisitor) VisitField(*Field) error   { v.fields++; return nil }
func (v *countingVisitor) VisitRule(*Field, *Rule) error {
	v.rules++
	return nil
}
func (v *countingVisitor) VisitCondition(_ *Condition, depth int) error {
	v.conditions++
	if depth > v.maxDepth {
		v.maxDepth = depth
	}
	return nil
}

func TestWalk(t *testing.T) {
	cfg := &Config{
		Fields: []*Field{
			{
				Name:             "a",
				EnablerCondition: &Condition{Type: "requireText"},
				Rules: []*Rule{
					{Condition: &Condition{Type: "all", Children: []*Condition{{Type: "regExp"}, {Type: "range"}}}},
				},
			},
			{Name: "b", Rules: []*Rule{{}}},
		},
	}

	v := &countingVisitor{}
	if err := Walk(cfg, v); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if v.fields != 2 || v.rules != 2 || v.conditions != 4 || v.maxDepth != 1 {
		t.Errorf("got fields=%d rules=%d conditions=%d maxDepth=%d", v.fields, v.rules, v.conditions, v.maxDepth)
	}
}
