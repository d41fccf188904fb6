package flow

import (
	"fmt"

	"github.com/goliatone/go-lotse/pkg/answers"
)

// Next returns the first reachable step after name. The boolean is false
// when name is the last reachable step.
func (g *Graph) Next(name string, values answers.Store) (string, bool, error) {
	idx, ok := g.index[name]
	if !ok {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownStep, name)
	}
	for i := idx + 1; i < len(g.steps); i++ {
		if _, unmet := g.steps[i].unmet(values); !unmet {
			return g.steps[i].Name, true, nil
		}
	}
	return "", false, nil
}

// Prev returns the closest reachable step before name. The boolean is false
// when no earlier step is reachable.
func (g *Graph) Prev(name string, values answers.Store) (string, bool, error) {
	idx, ok := g.index[name]
	if !ok {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownStep, name)
	}
	for i := idx - 1; i >= 0; i-- {
		if _, unmet := g.steps[i].unmet(values); !unmet {
			return g.steps[i].Name, true, nil
		}
	}
	return "", false, nil
}

// Reachable lists every step currently reachable for values, in order.
func (g *Graph) Reachable(values answers.Store) []string {
	var out []string
	for _, step := range g.steps {
		if _, unmet := step.unmet(values); !unmet {
			out = append(out, step.Name)
		}
	}
	return out
}
