package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-lotse/pkg/model"
)

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// FuncName customizes the translator helper name (defaults to "translate").
	FuncName string
	// OnMissing controls the string returned when a translation is missing.
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns helpers to expose in a template context. The
// translate helper is called as
//
//	{{ translate(page, "form.next") }}
//
// where the first argument is a locale string, a model.Page or a map holding
// a "locale" entry.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	return map[string]any{
		name: func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale := resolveLocale(localeSrc)
			if t == nil {
				return onMissing(locale, key, params, ErrMissingTranslator)
			}
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
		"current_locale": resolveLocale,
	}
}

func resolveLocale(src any) string {
	switch v := src.(type) {
	case nil:
		return ""
	case string:
		return v
	case model.Page:
		return v.Locale
	case *model.Page:
		if v == nil {
			return ""
		}
		return v.Locale
	case map[string]string:
		return v["locale"]
	case map[string]any:
		if locale, ok := v["locale"]; ok && locale != nil {
			return strings.TrimSpace(fmt.Sprint(locale))
		}
	}
	return ""
}
