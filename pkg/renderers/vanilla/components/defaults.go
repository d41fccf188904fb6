package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-lotse/pkg/model"
)

const templatePrefix = "templates/components/"

// EntriesScript is the script name the entries component asks for.
const EntriesScript = "lotse-entries.js"

// NewDefaultRegistry returns a registry with a component for every field
// kind.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{Renderer: inputRenderer})
	registry.MustRegister(NameTextarea, Descriptor{Renderer: templateRenderer(templatePrefix + "textarea.tpl")})
	registry.MustRegister(NameYesNo, Descriptor{Renderer: templateRenderer(templatePrefix + "radio.tpl")})
	registry.MustRegister(NameRadio, Descriptor{Renderer: templateRenderer(templatePrefix + "radio.tpl")})
	registry.MustRegister(NameSelect, Descriptor{Renderer: templateRenderer(templatePrefix + "select.tpl")})
	registry.MustRegister(NameCheckbox, Descriptor{Renderer: templateRenderer(templatePrefix + "checkbox.tpl")})
	registry.MustRegister(NameEntries, Descriptor{
		Renderer: templateRenderer(templatePrefix + "entries.tpl"),
		Scripts:  []string{EntriesScript},
	})

	return registry
}

func templateRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		return renderTemplate(buf, templateName, field, data, nil)
	}
}

// inputRenderer picks the input type and input mode for the scalar kinds.
func inputRenderer(buf *bytes.Buffer, field model.Field, data ComponentData) error {
	attrs := map[string]any{"type": "text"}
	switch field.Kind {
	case model.KindDate:
		attrs["type"] = "date"
	case model.KindEuro:
		attrs["inputmode"] = "decimal"
		attrs["suffix"] = "€"
	case model.KindInteger:
		attrs["inputmode"] = "numeric"
	}
	return renderTemplate(buf, templatePrefix+"input.tpl", field, data, attrs)
}

func renderTemplate(buf *bytes.Buffer, templateName string, field model.Field, data ComponentData, attrs map[string]any) error {
	if data.Template == nil {
		return fmt.Errorf("components: template renderer not configured for %q", templateName)
	}
	payload := map[string]any{
		"field": field,
		"id":    data.ID,
		"attrs": attrs,
		"lines": strings.Join(field.Entries, "\n"),
	}
	rendered, err := data.Template.RenderTemplate(templateName, payload)
	if err != nil {
		return fmt.Errorf("components: render template %q: %w", templateName, err)
	}
	buf.WriteString(rendered)
	return nil
}
