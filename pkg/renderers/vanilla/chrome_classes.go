package vanilla

// ChromeClass is a typed identifier for the CSS classes of the page chrome.
type ChromeClass string

const (
	ClassForm    ChromeClass = "lotse-form"
	ClassNav     ChromeClass = "lotse-nav"
	ClassNotice  ChromeClass = "lotse-notice"
	ClassField   ChromeClass = "lotse-field"
	ClassActions ChromeClass = "lotse-actions"
	ClassErrors  ChromeClass = "lotse-errors"
	ClassSummary ChromeClass = "lotse-summary"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"nav":     string(ClassNav),
		"notice":  string(ClassNotice),
		"field":   string(ClassField),
		"actions": string(ClassActions),
		"errors":  string(ClassErrors),
		"summary": string(ClassSummary),
	}
}
