package flow

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/visibility"
	"github.com/goliatone/go-lotse/pkg/visibility/expr"
)

// Option customises graph construction.
type Option func(*Graph)

// WithExtras supplies the derived facts field rules may reference under the
// `extras.` prefix.
func WithExtras(fn expr.ExtrasFunc) Option {
	return func(g *Graph) {
		g.extras = fn
	}
}

// WithLogger routes resolution diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Graph is an ordered, validated set of steps.
type Graph struct {
	steps  []Step
	index  map[string]int
	extras expr.ExtrasFunc
	logger *zap.Logger
}

// New validates steps and builds a graph. Steps keep the order given.
func New(steps []Step, options ...Option) (*Graph, error) {
	g := &Graph{
		index:  make(map[string]int, len(steps)),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidGraph)
	}

	g.steps = make([]Step, 0, len(steps))
	for idx, step := range steps {
		step.Name = strings.TrimSpace(step.Name)
		if step.Name == "" {
			return nil, fmt.Errorf("%w: step %d has no name", ErrInvalidGraph, idx)
		}
		if step.Name == StartStep {
			return nil, fmt.Errorf("%w: %q is reserved", ErrInvalidGraph, StartStep)
		}
		if _, dup := g.index[step.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate step %q", ErrInvalidGraph, step.Name)
		}
		if err := validateFields(step); err != nil {
			return nil, err
		}

		rules, err := g.stepRules(step)
		if err != nil {
			return nil, err
		}
		step.states = rules
		step.position = idx
		step.Prerequisites = append([]Prerequisite(nil), step.Prerequisites...)
		step.Owns = append([]string(nil), step.Owns...)
		step.Fields = append([]Field(nil), step.Fields...)

		g.index[step.Name] = idx
		g.steps = append(g.steps, step)
	}

	if err := g.validateRedirects(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNew is like New but panics on error.
func MustNew(steps []Step, options ...Option) *Graph {
	g, err := New(steps, options...)
	if err != nil {
		panic(err)
	}
	return g
}

func validateFields(step Step) error {
	seen := make(map[string]struct{}, len(step.Fields))
	for _, field := range step.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w: step %q declares a field without name", ErrInvalidGraph, step.Name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: step %q declares field %q twice", ErrInvalidGraph, step.Name, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func (g *Graph) stepRules(step Step) (visibility.Rules, error) {
	if len(step.Fields) == 0 {
		return step.Rules, nil
	}
	fieldRules := make([]expr.FieldRule, 0, len(step.Fields))
	for _, field := range step.Fields {
		fieldRules = append(fieldRules, expr.FieldRule{
			Field:    field.Name,
			When:     field.VisibleWhen,
			Required: field.Required,
		})
	}
	compiled, err := expr.NewRules(fieldRules, g.extras)
	if err != nil {
		return nil, fmt.Errorf("%w: step %q: %v", ErrInvalidGraph, step.Name, err)
	}
	if step.Rules == nil {
		return compiled, nil
	}
	return visibility.Combine(compiled, step.Rules), nil
}

// validateRedirects checks that redirect targets exist and that following
// redirects can never cycle.
func (g *Graph) validateRedirects() error {
	for _, step := range g.steps {
		for _, prereq := range step.Prerequisites {
			if prereq.Check == nil {
				return fmt.Errorf("%w: step %q prerequisite %q has no check", ErrInvalidGraph, step.Name, prereq.Name)
			}
			if _, ok := g.index[prereq.Redirect]; !ok {
				return fmt.Errorf("%w: step %q redirects to unknown step %q", ErrInvalidGraph, step.Name, prereq.Redirect)
			}
			if prereq.Redirect == step.Name {
				return fmt.Errorf("%w: step %q redirects to itself", ErrInvalidGraph, step.Name)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make([]int, len(g.steps))
	var visit func(idx int, path []string) error
	visit = func(idx int, path []string) error {
		switch marks[idx] {
		case visiting:
			return fmt.Errorf("%w: redirect cycle %s", ErrInvalidGraph, strings.Join(append(path, g.steps[idx].Name), " -> "))
		case done:
			return nil
		}
		marks[idx] = visiting
		path = append(path, g.steps[idx].Name)
		for _, prereq := range g.steps[idx].Prerequisites {
			if err := visit(g.index[prereq.Redirect], path); err != nil {
				return err
			}
		}
		marks[idx] = done
		return nil
	}
	for idx := range g.steps {
		if err := visit(idx, nil); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of steps.
func (g *Graph) Len() int {
	return len(g.steps)
}

// First returns the name of the first step.
func (g *Graph) First() string {
	return g.steps[0].Name
}

// Names lists step names in order.
func (g *Graph) Names() []string {
	out := make([]string, 0, len(g.steps))
	for _, step := range g.steps {
		out = append(out, step.Name)
	}
	return out
}

// Steps returns a copy of the steps in order.
func (g *Graph) Steps() []Step {
	return append([]Step(nil), g.steps...)
}

// Step looks up a step by name.
func (g *Graph) Step(name string) (Step, error) {
	idx, ok := g.index[name]
	if !ok {
		return Step{}, fmt.Errorf("%w: %q", ErrUnknownStep, name)
	}
	return g.steps[idx], nil
}

// Has reports whether name is a step of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Sections lists the distinct step sections in order of first appearance.
func (g *Graph) Sections() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, step := range g.steps {
		if step.Section == "" {
			continue
		}
		if _, ok := seen[step.Section]; ok {
			continue
		}
		seen[step.Section] = struct{}{}
		out = append(out, step.Section)
	}
	return out
}

// Extras evaluates the configured extras function.
func (g *Graph) Extras(values answers.Store) map[string]any {
	if g.extras == nil {
		return nil
	}
	return g.extras(values)
}
