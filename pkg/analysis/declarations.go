package analysis

import (
	"fmt"
	"strings"

	"mercator-hq/valcheck/pkg/vcl/ast"
)

// dataTypeDecl is the resolved data type of one field.
type dataTypeDecl struct {
	key       string
	corrected bool
	inferred  bool
	sample    any
	// err is the identifier service failure met while inferring key.
	err error
}

// declarations resolves every field's data type before analysis so value-host
// references can see the data types of fields declared later.
type declarations struct {
	r *run
}

func (r *run) declare() {
	r.decls = make(map[*ast.Field]*dataTypeDecl, len(r.cfg.Fields))
	// The visitor never fails.
	_ = ast.Walk(r.cfg, &declarations{r: r})
}

func (d *declarations) VisitConfig(*ast.Config) error { return nil }

func (d *declarations) VisitField(f *ast.Field) error {
	decl := &dataTypeDecl{}
	d.r.decls[f] = decl

	if strings.TrimSpace(f.DataType) != "" {
		decl.key, decl.corrected = d.r.keys.canonical(f.DataType)
		return nil
	}

	sample, ok := d.r.a.opts.SampleValues.ByField[f.Name]
	if !ok || sample == nil {
		return nil
	}
	decl.sample = sample
	key, err := d.r.identify(sample)
	if err != nil {
		decl.err = err
		return nil
	}
	if key != "" {
		decl.key, _ = d.r.keys.canonical(key)
		decl.inferred = true
	}
	return nil
}

func (d *declarations) VisitRule(*ast.Field, *ast.Rule) error { return nil }

func (d *declarations) VisitCondition(*ast.Condition, int) error { return nil }

// identify asks the identifier service for the lookup key of value. A panic
// of the service is returned as an error.
func (r *run) identify(value any) (key string, err error) {
	if r.a.reg.Identifiers == nil {
		return "", nil
	}
	defer func() {
		if p := recover(); p != nil {
			key, err = "", fmt.Errorf("%v", p)
		}
	}()
	return r.a.reg.Identifiers.Identify(value)
}
