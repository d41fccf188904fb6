package visibility

import (
	"fmt"

	"github.com/goliatone/go-lotse/pkg/answers"
)

// Row is one line of a decision table. Fields the row does not name are
// hidden when the row matches.
type Row[K any] struct {
	Name    string
	Match   func(K) bool
	Effects map[string]Effect
}

// Table is an ordered decision table. Derive reduces the answers to the key
// the rows match against; the first matching row decides every governed
// field. When no row matches, every governed field is hidden.
type Table[K any] struct {
	Fields []string
	Rows   []Row[K]
	Derive func(values answers.Store) K
}

// Validate checks that every row only names governed fields.
func (t Table[K]) Validate() error {
	governed := make(map[string]struct{}, len(t.Fields))
	for _, field := range t.Fields {
		governed[field] = struct{}{}
	}
	for idx, row := range t.Rows {
		if row.Match == nil {
			return fmt.Errorf("visibility: table row %d (%s) has no matcher", idx, row.Name)
		}
		for field := range row.Effects {
			if _, ok := governed[field]; !ok {
				return fmt.Errorf("visibility: table row %d (%s) names ungoverned field %q", idx, row.Name, field)
			}
		}
	}
	return nil
}

// Evaluate returns the states for key along with the name of the matching
// row ("" when none matched).
func (t Table[K]) Evaluate(key K) (States, string) {
	out := make(States, len(t.Fields))
	for _, field := range t.Fields {
		out[field] = FieldState{}
	}
	for _, row := range t.Rows {
		if row.Match == nil || !row.Match(key) {
			continue
		}
		for field, effect := range row.Effects {
			out[field] = effect.State()
		}
		return out, row.Name
	}
	return out, ""
}

// States implements Rules.
func (t Table[K]) States(values answers.Store) (States, error) {
	if t.Derive == nil {
		return nil, fmt.Errorf("visibility: table has no key derivation")
	}
	states, _ := t.Evaluate(t.Derive(values))
	return states, nil
}
