package flow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-lotse/pkg/answers"
)

// Decision is the outcome of resolving a requested step.
type Decision struct {
	Requested string
	// Step is the step to show: the requested one when Allowed, otherwise
	// the redirect target.
	Step    string
	Allowed bool
	// Redirect is set when Allowed is false.
	Redirect string
	// Reason is the message key of the first unmet prerequisite.
	Reason string
	// Prerequisite names the first unmet prerequisite.
	Prerequisite string
	// Chain lists the steps visited while following redirects, starting with
	// the requested step.
	Chain []string
}

// Resolve decides whether the requested step may be shown for values.
//
// Prerequisites are evaluated in declaration order and the first unmet one
// decides the redirect target. The target is resolved again, so the filer is
// sent to the first reachable step along the chain. Missing or malformed
// answers simply fail predicates; only an unknown step name is an error.
func (g *Graph) Resolve(requested string, values answers.Store) (Decision, error) {
	if requested == StartStep {
		first := g.First()
		decision, err := g.Resolve(first, values)
		if err != nil {
			return Decision{}, err
		}
		decision.Requested = StartStep
		decision.Allowed = false
		decision.Redirect = decision.Step
		decision.Chain = append([]string{StartStep}, decision.Chain...)
		return decision, nil
	}

	idx, ok := g.index[requested]
	if !ok {
		g.logger.Error("flow: unknown step requested", zap.String("step", requested))
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownStep, requested)
	}

	decision := Decision{Requested: requested}
	visited := make(map[int]struct{}, 4)
	for {
		if _, seen := visited[idx]; seen {
			return Decision{}, fmt.Errorf("%w: %v", ErrRedirectLoop, decision.Chain)
		}
		visited[idx] = struct{}{}

		step := g.steps[idx]
		decision.Chain = append(decision.Chain, step.Name)

		prereq, unmet := step.unmet(values)
		if !unmet {
			decision.Step = step.Name
			decision.Allowed = step.Name == requested
			if !decision.Allowed {
				decision.Redirect = step.Name
				g.logger.Debug("flow: redirecting",
					zap.String("requested", requested),
					zap.String("redirect", step.Name),
					zap.String("prerequisite", decision.Prerequisite),
					zap.Strings("chain", decision.Chain),
				)
			}
			return decision, nil
		}

		if decision.Reason == "" && decision.Prerequisite == "" {
			decision.Reason = prereq.Reason
			decision.Prerequisite = prereq.Name
		}
		idx = g.index[prereq.Redirect]
	}
}

// Accessible reports whether name may be shown for values.
func (g *Graph) Accessible(name string, values answers.Store) (bool, error) {
	idx, ok := g.index[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownStep, name)
	}
	_, unmet := g.steps[idx].unmet(values)
	return !unmet, nil
}
