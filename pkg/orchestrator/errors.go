package orchestrator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationRequired is the message key attached to a required field that
// was submitted without a value.
const ValidationRequired = "form.lotse.validation.required"

var (
	// ErrIncomplete reports a submission that left required visible fields
	// empty. Use errors.As with *IncompleteError for the field details.
	ErrIncomplete = errors.New("orchestrator: submission incomplete")
	// ErrNoRenderer is returned when no renderer is registered.
	ErrNoRenderer = errors.New("orchestrator: no renderers registered")
)

// IncompleteError lists the fields a submission is missing.
type IncompleteError struct {
	Step   string
	Fields map[string][]string
}

func (e *IncompleteError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("orchestrator: step %q incomplete: %s", e.Step, strings.Join(names, ", "))
}

// Is matches ErrIncomplete.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}
