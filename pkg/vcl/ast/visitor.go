package ast

// Visitor receives configuration nodes during Walk.
// Return an error to stop the traversal.
type Visitor interface {
	VisitConfig(*Config) error
	VisitField(*Field) error
	VisitRule(*Field, *Rule) error
	VisitCondition(*Condition, int) error
}

// Walk traverses the configuration in declaration order: each field, its
// enabler condition, then its rules and their conditions. It returns the first
// error reported by the visitor.
func Walk(cfg *Config, visitor Visitor) error {
	if err := visitor.VisitConfig(cfg); err != nil {
		return err
	}

	for _, field := range cfg.Fields {
		if err := visitor.VisitField(field); err != nil {
			return err
		}

		if field.EnablerCondition != nil {
			if err := walkCondition(field.EnablerCondition, 0, visitor); err != nil {
				return err
			}
		}

		for _, rule := range field.Rules {
			if err := visitor.VisitRule(field, rule); err != nil {
				return err
			}
			if rule.Condition != nil {
				if err := walkCondition(rule.Condition, 0, visitor); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// walkCondition recursively walks a condition tree.
func walkCondition(cond *Condition, depth int, visitor Visitor) error {
	if err := visitor.VisitCondition(cond, depth); err != nil {
		return err
	}

	for _, child := range cond.Children {
		if err := walkCondition(child, depth+1, visitor); err != nil {
			return err
		}
	}

	return nil
}
