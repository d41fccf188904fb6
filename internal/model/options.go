package model

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler func(string) string
	// Action maps a step name to the URL its page submits to.
	Action func(step string) string
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
		Action:  DefaultAction,
	}
}

// DefaultAction returns the route the HTTP server mounts steps under.
func DefaultAction(step string) string {
	return "/lotse/step/" + step
}
