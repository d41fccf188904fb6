package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-lotse/pkg/model"
)

// ErrMissingTranslator is reported to the MissingTranslationHandler when no
// Translator is configured.
var ErrMissingTranslator = errors.New("render: no translator configured")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. params carries the template arguments; the first element is a
// map holding the fallback under "default" when one exists.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

func missingTranslationDefault(_ string, key string, params []any, _ error) string {
	for _, param := range params {
		if values, ok := param.(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// LocalizePage translates the page in place. Titles, reasons, navigation
// labels and error messages are message keys; field labels may be keys or
// literal text, and literal text without a translation is kept as is.
func LocalizePage(page *model.Page, opts RenderOptions) {
	if page == nil {
		return
	}

	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	tr := func(text string) string {
		if strings.TrimSpace(text) == "" {
			return text
		}
		return translate(opts.Locale, text, text, opts.Translator, onMissing)
	}

	if opts.Locale != "" {
		page.Locale = opts.Locale
	}
	page.Title = tr(page.Title)
	page.Intro = tr(page.Intro)
	page.Reason = tr(page.Reason)
	page.Errors = translateAll(page.Errors, tr)

	for i := range page.Nav {
		page.Nav[i].Label = tr(page.Nav[i].Label)
	}
	for i := range page.Fields {
		localizeField(&page.Fields[i], tr)
	}
	for i := range page.Summary {
		section := &page.Summary[i]
		section.Label = tr(section.Label)
		for j := range section.Steps {
			step := &section.Steps[j]
			step.Title = tr(step.Title)
			for k := range step.Entries {
				step.Entries[k].Label = tr(step.Entries[k].Label)
				if step.Entries[k].Missing {
					step.Entries[k].Value = tr(step.Entries[k].Value)
				}
			}
		}
	}
}

func localizeField(field *model.Field, tr func(string) string) {
	field.Label = tr(field.Label)
	field.Help = tr(field.Help)
	field.Placeholder = tr(field.Placeholder)
	field.Errors = translateAll(field.Errors, tr)
	for i := range field.Choices {
		field.Choices[i].Label = tr(field.Choices[i].Label)
	}
}

func translateAll(messages []string, tr func(string) string) []string {
	if len(messages) == 0 {
		return messages
	}
	out := make([]string, len(messages))
	for i, message := range messages {
		out[i] = tr(message)
	}
	return out
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}
