package vanilla

import "strings"

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "lotse-" + trimmed
}

// labelSupportsFor reports whether the control is a single element a label
// can point at. Radio groups are labelled by their fieldset legend.
func labelSupportsFor(component string) bool {
	switch component {
	case "radio", "yesno":
		return false
	default:
		return true
	}
}
