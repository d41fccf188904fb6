package flow

import (
	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/visibility"
	"github.com/goliatone/go-lotse/pkg/visibility/expr"
)

type exprPredicate struct {
	program *expr.Program
	extras  expr.ExtrasFunc
}

// When compiles rule into a Predicate. Evaluation errors count as unmet.
func When(rule string, extras expr.ExtrasFunc) (Predicate, error) {
	program, err := expr.Compile(rule)
	if err != nil {
		return nil, err
	}
	return exprPredicate{program: program, extras: extras}, nil
}

func (p exprPredicate) Satisfied(values answers.Store) bool {
	var extras map[string]any
	if p.extras != nil {
		extras = p.extras(values)
	}
	ok, err := p.program.Eval(visibility.NewContext(values, extras))
	return err == nil && ok
}

func (p exprPredicate) String() string {
	return p.program.String()
}

// Equals holds when key stores exactly want.
func Equals(key, want string) Predicate {
	return PredicateFunc(func(values answers.Store) bool {
		return values.Equals(key, want)
	})
}

// Filled holds when any of the keys holds a non-empty value.
func Filled(keys ...string) Predicate {
	return PredicateFunc(func(values answers.Store) bool {
		return values.HasAny(keys...)
	})
}

// NonZeroAmount holds when any of the keys holds a parsable amount other
// than zero. Malformed amounts count as absent.
func NonZeroAmount(keys ...string) Predicate {
	return PredicateFunc(func(values answers.Store) bool {
		for _, key := range keys {
			amount, ok := values.Decimal(key)
			if ok && !amount.IsNaN() && !amount.IsZero() {
				return true
			}
		}
		return false
	})
}

// Not negates p.
func Not(p Predicate) Predicate {
	return PredicateFunc(func(values answers.Store) bool {
		return !p.Satisfied(values)
	})
}

// All holds when every predicate holds.
func All(predicates ...Predicate) Predicate {
	return PredicateFunc(func(values answers.Store) bool {
		for _, p := range predicates {
			if !p.Satisfied(values) {
				return false
			}
		}
		return true
	})
}

// Any holds when at least one predicate holds.
func Any(predicates ...Predicate) Predicate {
	return PredicateFunc(func(values answers.Store) bool {
		for _, p := range predicates {
			if p.Satisfied(values) {
				return true
			}
		}
		return false
	})
}
