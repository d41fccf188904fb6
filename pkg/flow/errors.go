package flow

import "errors"

var (
	// ErrUnknownStep is returned when a step name is not part of the graph.
	// It signals a configuration or routing bug, not a filer mistake.
	ErrUnknownStep = errors.New("flow: unknown step")
	// ErrInvalidGraph wraps every construction-time validation failure.
	ErrInvalidGraph = errors.New("flow: invalid graph")
	// ErrRedirectLoop is returned if resolution revisits a step. Construction
	// rejects static cycles, so this indicates a predicate bug.
	ErrRedirectLoop = errors.New("flow: redirect loop")
)
