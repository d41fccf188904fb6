package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the page model.
type RenderOptions struct {
	// Values overrides the stored answers shown in controls, typically with the
	// raw input of a submission that failed validation.
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by field name.
	// Unknown keys are shown as page level errors.
	Errors map[string][]string
	// Hidden adds hidden inputs such as the CSRF token.
	Hidden map[string]string
	// Subset restricts which fields are emitted.
	Subset FieldSubset

	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}
