package model

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/flow"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

// Builder converts wizard steps into pages.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.Action != nil {
		opts.Action = options.Action
	}
	return &Builder{opts: opts}
}

// Build lays out step for the stored values. States decides which fields are
// shown and required; fields it does not name are shown with the requirement
// the step declares.
func (b *Builder) Build(step flow.Step, values answers.Store, states visibility.States) (Page, error) {
	if strings.TrimSpace(step.Name) == "" {
		return Page{}, errors.New("model: step name is required")
	}

	page := Page{
		Step:    step.Name,
		Title:   step.Title,
		Intro:   step.Intro,
		Section: step.Section,
		Action:  b.opts.Action(step.Name),
		Method:  http.MethodPost,
		Fields:  make([]Field, 0, len(step.Fields)),
	}

	for _, decl := range step.Fields {
		field, err := b.field(decl, values, states)
		if err != nil {
			return Page{}, fmt.Errorf("model: step %q: %w", step.Name, err)
		}
		page.Fields = append(page.Fields, field)
	}
	return page, nil
}

func (b *Builder) field(decl flow.Field, values answers.Store, states visibility.States) (Field, error) {
	name := strings.TrimSpace(decl.Name)
	if name == "" {
		return Field{}, errors.New("field name is required")
	}

	field := Field{
		Name:        name,
		Kind:        FieldKind(decl.Kind),
		Label:       decl.Label,
		Help:        decl.Help,
		Placeholder: decl.Placeholder,
		Rule:        decl.VisibleWhen,
		Visible:     true,
		Required:    decl.Required,
	}
	if field.Label == "" {
		field.Label = b.opts.Labeler(name)
	}
	if state, ok := states[name]; ok {
		field.Visible = state.Visible
		field.Required = state.Visible && state.Required
	}

	current := inputValue(decl.Kind, name, values)
	switch decl.Kind {
	case flow.KindCheckbox:
		field.Checked = values.Checked(name)
	case flow.KindEntries:
		field.Entries, _ = values.Entries(name)
	default:
		field.Value = current
	}

	for _, choice := range decl.Choices {
		field.Choices = append(field.Choices, Choice{
			Value:    choice.Value,
			Label:    choice.Label,
			Selected: current != "" && choice.Value == current,
		})
	}
	if decl.Kind == flow.KindYesNo && len(field.Choices) == 0 {
		field.Choices = []Choice{
			{Value: answers.Yes, Label: "Ja", Selected: current == answers.Yes},
			{Value: answers.No, Label: "Nein", Selected: current == answers.No},
		}
	}
	return field, nil
}

// inputValue formats a stored answer the way the input control expects it.
func inputValue(kind flow.FieldKind, name string, values answers.Store) string {
	if !values.Present(name) {
		return ""
	}
	switch kind {
	case flow.KindDate:
		if date, ok := values.Date(name); ok {
			return date.Format("2006-01-02")
		}
	case flow.KindEuro:
		if amount, ok := values.Decimal(name); ok {
			return strings.Replace(fmt.Sprintf("%.2f", amount), ".", ",", 1)
		}
	case flow.KindInteger:
		if n, ok := values.Int(name); ok {
			return strconv.Itoa(n)
		}
	}
	value, _ := values.String(name)
	return value
}
