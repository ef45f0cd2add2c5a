package filter

import (
	"errors"

	"fakerfilter/internal/config"
	"fakerfilter/internal/schema"
)

// Plan is the validated mapping from target columns to their rules. It is
// built once per Transaction/Open and read-only afterwards.
type Plan struct {
	// byIndex is aligned to the schema; nil entries are passthrough columns.
	byIndex []*config.ColumnRule
	byName  map[string]*config.ColumnRule
	targets []int
}

// BuildPlan resolves every rule against s. All problems are reported at
// once, joined; callers match them with errors.As:
//
//   - *UnknownColumnError when a name is absent from s
//   - *TypeMismatchError when the column is not a string column
//   - *DuplicateRuleError when a column is targeted twice
func BuildPlan(s *schema.Schema, rules []config.ColumnRule) (*Plan, error) {
	p := &Plan{
		byIndex: make([]*config.ColumnRule, s.Len()),
		byName:  make(map[string]*config.ColumnRule, len(rules)),
	}

	var errs []error
	for i := range rules {
		r := rules[i]
		col, err := s.Lookup(r.Name)
		if err != nil {
			errs = append(errs, &UnknownColumnError{Name: r.Name})
			continue
		}
		if col.Type != schema.String {
			errs = append(errs, &TypeMismatchError{Column: col.Name, Type: col.Type})
			continue
		}
		if p.byIndex[col.Index] != nil {
			errs = append(errs, &DuplicateRuleError{Name: r.Name})
			continue
		}
		p.byIndex[col.Index] = &r
		p.byName[r.Name] = &r
		p.targets = append(p.targets, col.Index)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return p, nil
}

// RuleAt returns the rule for the column at index, if any.
func (p *Plan) RuleAt(index int) (config.ColumnRule, bool) {
	if index < 0 || index >= len(p.byIndex) || p.byIndex[index] == nil {
		return config.ColumnRule{}, false
	}
	return *p.byIndex[index], true
}

// Rule returns the rule for the named column, if any.
func (p *Plan) Rule(name string) (config.ColumnRule, bool) {
	r, ok := p.byName[name]
	if !ok {
		return config.ColumnRule{}, false
	}
	return *r, true
}

// Targets returns the targeted column indices in configuration order.
func (p *Plan) Targets() []int {
	out := make([]int, len(p.targets))
	copy(out, p.targets)
	return out
}

// Len returns the number of targeted columns.
func (p *Plan) Len() int { return len(p.targets) }
