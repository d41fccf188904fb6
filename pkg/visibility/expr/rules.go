package expr

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

// ExtrasFunc derives facts exposed to rules under the `extras.` prefix.
type ExtrasFunc func(values answers.Store) map[string]any

// FieldRule shows Field when When holds. An empty When always holds.
type FieldRule struct {
	Field    string
	When     string
	Required bool
}

type compiledRule struct {
	field    string
	required bool
	program  *Program
}

// Rules evaluates per-field expressions and implements visibility.Rules.
type Rules struct {
	rules  []compiledRule
	extras ExtrasFunc
}

// NewRules compiles every rule up front so malformed expressions surface at
// construction rather than while a filer is mid-step.
func NewRules(fields []FieldRule, extras ExtrasFunc) (*Rules, error) {
	out := &Rules{extras: extras}
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Field)
		if name == "" {
			return nil, fmt.Errorf("visibility/expr: rule with empty field")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("visibility/expr: duplicate rule for field %q", name)
		}
		seen[name] = struct{}{}

		program, err := Compile(field.When)
		if err != nil {
			return nil, fmt.Errorf("visibility/expr: field %q: %w", name, err)
		}
		out.rules = append(out.rules, compiledRule{field: name, required: field.Required, program: program})
	}
	return out, nil
}

// Len reports the number of governed fields.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// States evaluates every rule against values.
func (r *Rules) States(values answers.Store) (visibility.States, error) {
	if r == nil || len(r.rules) == 0 {
		return visibility.States{}, nil
	}
	var extras map[string]any
	if r.extras != nil {
		extras = r.extras(values)
	}
	ctx := visibility.NewContext(values, extras)

	out := make(visibility.States, len(r.rules))
	for _, rule := range r.rules {
		ok, err := rule.program.Eval(ctx)
		if err != nil {
			return nil, fmt.Errorf("visibility/expr: field %q: %w", rule.field, err)
		}
		if !ok {
			out[rule.field] = visibility.Hide.State()
			continue
		}
		if rule.required {
			out[rule.field] = visibility.ShowRequired.State()
		} else {
			out[rule.field] = visibility.ShowOptional.State()
		}
	}
	return out, nil
}
