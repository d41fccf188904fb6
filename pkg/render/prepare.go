package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/model"
)

// Prepare returns a copy of page with the per-request options applied:
// submitted values, mapped errors, the field subset and translations.
// Renderers call it first so they all treat options the same way.
func Prepare(page model.Page, opts RenderOptions) model.Page {
	out := clonePage(page)

	if len(opts.Values) > 0 {
		applyValues(&out, opts.Values)
	}
	if len(opts.Errors) > 0 {
		ApplyErrors(&out, MapErrorPayload(out, opts.Errors))
	}
	ApplySubset(&out, opts.Subset)
	if opts.Translator != nil || opts.Locale != "" {
		LocalizePage(&out, opts)
	}
	return out
}

func clonePage(page model.Page) model.Page {
	out := page
	out.Fields = make([]model.Field, len(page.Fields))
	for i, field := range page.Fields {
		field.Choices = append([]model.Choice(nil), field.Choices...)
		field.Entries = append([]string(nil), field.Entries...)
		field.Errors = append([]string(nil), field.Errors...)
		out.Fields[i] = field
	}
	out.Nav = append([]model.NavItem(nil), page.Nav...)
	out.Errors = append([]string(nil), page.Errors...)
	if len(page.Summary) > 0 {
		out.Summary = make([]model.SummarySection, len(page.Summary))
		for i, section := range page.Summary {
			steps := make([]model.SummaryStep, len(section.Steps))
			for j, step := range section.Steps {
				step.Entries = append([]model.SummaryEntry(nil), step.Entries...)
				steps[j] = step
			}
			section.Steps = steps
			out.Summary[i] = section
		}
	}
	if page.Metadata != nil {
		out.Metadata = make(map[string]string, len(page.Metadata))
		for key, value := range page.Metadata {
			out.Metadata[key] = value
		}
	}
	return out
}

// applyValues shows raw submitted input instead of the stored answers.
func applyValues(page *model.Page, values map[string]any) {
	for i := range page.Fields {
		field := &page.Fields[i]
		raw, ok := values[field.Name]
		if !ok {
			continue
		}
		switch field.Kind {
		case model.KindCheckbox:
			field.Checked, _ = answers.ParseBool(raw)
		case model.KindEntries:
			field.Entries, _ = answers.New(map[string]any{field.Name: raw}).Entries(field.Name)
		default:
			field.Value = strings.TrimSpace(fmt.Sprint(raw))
			for j := range field.Choices {
				field.Choices[j].Selected = field.Choices[j].Value == field.Value
			}
		}
	}
}
