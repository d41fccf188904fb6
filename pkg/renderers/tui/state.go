package tui

// State tracks the answers collected for one page and the server-provided
// errors keyed by field name.
type State struct {
	values map[string]any
	errors map[string][]string
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill map[string]any, errs map[string][]string) *State {
	values := make(map[string]any, len(prefill))
	for key, value := range prefill {
		values[key] = value
	}
	errors := make(map[string][]string, len(errs))
	for key, messages := range errs {
		errors[key] = append([]string(nil), messages...)
	}
	return &State{values: values, errors: errors}
}

// Values returns the current value map (mutable).
func (s *State) Values() map[string]any {
	return s.values
}

// Value returns the answer collected for name.
func (s *State) Value(name string) (any, bool) {
	value, ok := s.values[name]
	return value, ok
}

// Set records the answer for name and clears its errors.
func (s *State) Set(name string, value any) {
	s.values[name] = value
	delete(s.errors, name)
}

// Delete drops the answer for name.
func (s *State) Delete(name string) {
	delete(s.values, name)
}

// ErrorsFor returns the errors attached to name.
func (s *State) ErrorsFor(name string) []string {
	return s.errors[name]
}
