package visibility

import (
	"sort"

	"github.com/goliatone/go-lotse/pkg/answers"
)

// Evaluator determines whether a rule holds for a field given the current
// answers and any derived facts.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the in-progress
// answers while Extras carries derived facts (for example whether the filer
// files jointly) under the `extras.` prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// NewContext builds an evaluation context from an answers snapshot.
func NewContext(values answers.Store, extras map[string]any) Context {
	return Context{Values: values.Map(), Extras: extras}
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Effect is the outcome a rule assigns to a single field.
type Effect int

const (
	Hide Effect = iota
	ShowOptional
	ShowRequired
)

// State converts the effect into a FieldState.
func (e Effect) State() FieldState {
	switch e {
	case ShowRequired:
		return FieldState{Visible: true, Required: true}
	case ShowOptional:
		return FieldState{Visible: true}
	default:
		return FieldState{}
	}
}

func (e Effect) String() string {
	switch e {
	case ShowRequired:
		return "required"
	case ShowOptional:
		return "optional"
	default:
		return "hidden"
	}
}

// FieldState tells the rendering layer whether to show a field and whether a
// value must be supplied before the step can be submitted.
type FieldState struct {
	Visible  bool `json:"visible"`
	Required bool `json:"required"`
}

// States maps field ids to their state.
type States map[string]FieldState

// Visible reports whether field is shown. Fields without an entry are shown;
// rules only govern the fields they name.
func (s States) Visible(field string) bool {
	state, ok := s[field]
	return !ok || state.Visible
}

// Required reports whether field is shown and must be filled.
func (s States) Required(field string) bool {
	state, ok := s[field]
	return ok && state.Visible && state.Required
}

// Hidden lists the governed fields that are hidden, sorted.
func (s States) Hidden() []string {
	var out []string
	for field, state := range s {
		if !state.Visible {
			out = append(out, field)
		}
	}
	sort.Strings(out)
	return out
}

// Merge returns the union of both maps. Entries in other win.
func (s States) Merge(other States) States {
	out := make(States, len(s)+len(other))
	for field, state := range s {
		out[field] = state
	}
	for field, state := range other {
		out[field] = state
	}
	return out
}

// Rules computes field states for a step from its in-progress answers.
type Rules interface {
	States(values answers.Store) (States, error)
}

// RulesFunc adapts a function into Rules.
type RulesFunc func(values answers.Store) (States, error)

// States delegates to the underlying function.
func (fn RulesFunc) States(values answers.Store) (States, error) {
	return fn(values)
}

// Combine evaluates every rule set and merges the results in order.
func Combine(rules ...Rules) Rules {
	return RulesFunc(func(values answers.Store) (States, error) {
		out := States{}
		for _, r := range rules {
			if r == nil {
				continue
			}
			states, err := r.States(values)
			if err != nil {
				return nil, err
			}
			out = out.Merge(states)
		}
		return out, nil
	})
}

// Clear drops the values of every hidden field from values.
func Clear(values answers.Store, states States) answers.Store {
	return values.Without(states.Hidden()...)
}
