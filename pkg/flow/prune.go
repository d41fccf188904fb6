package flow

import (
	"fmt"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

// Prune removes answers that must be treated as absent:
//
//   - every answer owned by a step that is no longer reachable
//   - every answer of a reachable step whose field is currently hidden
//
// Removing answers can make further steps unreachable, so pruning repeats
// until nothing changes.
func (g *Graph) Prune(values answers.Store) (answers.Store, error) {
	for pass := 0; pass <= len(g.steps); pass++ {
		next := values
		for _, step := range g.steps {
			if _, unmet := step.unmet(next); unmet {
				next = dropOwned(next, step)
				continue
			}
			states, err := step.States(next)
			if err != nil {
				return answers.Store{}, fmt.Errorf("flow: prune %q: %w", step.Name, err)
			}
			next = visibility.Clear(next, states)
		}
		if next.Len() == values.Len() {
			return next, nil
		}
		values = next
	}
	return values, nil
}

func dropOwned(values answers.Store, step Step) answers.Store {
	values = values.Without(step.FieldNames()...)
	return values.WithoutPrefix(step.Owns...)
}
