// Package tui asks the fields of a wizard page on the terminal and emits the
// collected answers. Only visible fields are asked; when a StatesFunc is
// configured, visibility follows the answers as they are given.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/render"
)

// Renderer implements render.Renderer for terminal sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	states            StatesFunc
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       NewSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every visible field of page and returns the answers in
// the configured format. Hidden fields are dropped from the result.
func (r *Renderer) Render(ctx context.Context, page model.Page, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page = render.Prepare(page, opts)
	state := NewState(opts.Values, opts.Errors)

	if page.Redirected && page.Reason != "" {
		if err := r.info(ctx, page.Reason); err != nil {
			return nil, err
		}
	}
	if err := r.info(ctx, page.Title); err != nil {
		return nil, err
	}
	for _, message := range page.Errors {
		if err := r.warn(ctx, message); err != nil {
			return nil, err
		}
	}

	for _, field := range page.Fields {
		visible, required, err := r.fieldState(ctx, page.Step, field, state)
		if err != nil {
			return nil, err
		}
		if !visible {
			state.Delete(field.Name)
			continue
		}
		field.Required = required
		for _, message := range state.ErrorsFor(field.Name) {
			if err := r.warn(ctx, field.Label+": "+message); err != nil {
				return nil, err
			}
		}
		if err := r.promptField(ctx, field, state); err != nil {
			return nil, fmt.Errorf("tui: field %q: %w", field.Name, err)
		}
	}

	values := state.Values()
	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		values = transformed
	}
	return r.serialize(values)
}

func (r *Renderer) fieldState(ctx context.Context, step string, field model.Field, state *State) (bool, bool, error) {
	if r.states == nil {
		return field.Visible, field.Required, nil
	}
	states, err := r.states(ctx, step, state.Values())
	if err != nil {
		return false, false, fmt.Errorf("tui: visibility: %w", err)
	}
	fs, ok := states[field.Name]
	if !ok {
		return field.Visible, field.Required, nil
	}
	return fs.Visible, fs.Visible && fs.Required, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, state *State) error {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Required {
		label += " *"
	}

	switch field.Kind {
	case model.KindYesNo, model.KindRadio, model.KindSelect:
		return r.promptChoice(ctx, field, label, state)
	case model.KindCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: field.Checked, Help: field.Help})
		if err != nil {
			return err
		}
		state.Set(field.Name, checked)
		return nil
	case model.KindEntries:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: strings.Join(field.Entries, "\n"), Help: field.Help})
		if err != nil {
			return err
		}
		entries := splitEntries(text)
		if len(entries) == 0 {
			state.Delete(field.Name)
			return nil
		}
		state.Set(field.Name, entries)
		return nil
	case model.KindTextArea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: field.Value, Help: field.Help})
		if err != nil {
			return err
		}
		setText(state, field.Name, text)
		return nil
	default:
		text, err := r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   field.Value,
			Help:      field.Help,
			Validator: validatorFor(field),
		})
		if err != nil {
			return err
		}
		setText(state, field.Name, normaliseInput(field.Kind, text))
		return nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, field model.Field, label string, state *State) error {
	if len(field.Choices) == 0 {
		return ErrNoChoice
	}
	options := make([]string, 0, len(field.Choices))
	selected := -1
	for i, choice := range field.Choices {
		options = append(options, choice.Label)
		if choice.Selected || (field.Value != "" && choice.Value == field.Value) {
			selected = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: selected, Help: field.Help})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Choices) {
		return fmt.Errorf("tui: selection %d out of range", idx)
	}
	state.Set(field.Name, field.Choices[idx].Value)
	return nil
}

var errRequired = errors.New("Pflichtangabe")

// validatorFor checks the format of scalar input. Empty input passes unless
// the field is required.
func validatorFor(field model.Field) func(string) error {
	return func(input string) error {
		input = strings.TrimSpace(input)
		if input == "" {
			if field.Required {
				return errRequired
			}
			return nil
		}
		switch field.Kind {
		case model.KindDate:
			if _, ok := answers.ParseDate(input); !ok {
				return errors.New("Datum im Format TT.MM.JJJJ angeben")
			}
		case model.KindEuro:
			if _, ok := answers.ParseDecimal(input); !ok {
				return errors.New("Betrag in Euro angeben, z. B. 1.234,56")
			}
		case model.KindInteger:
			if _, err := strconv.Atoi(input); err != nil {
				return errors.New("ganze Zahl angeben")
			}
		}
		return nil
	}
}

// normaliseInput stores dates as ISO dates and amounts with a decimal point.
func normaliseInput(kind model.FieldKind, input string) string {
	input = strings.TrimSpace(input)
	switch kind {
	case model.KindDate:
		if date, ok := answers.ParseDate(input); ok {
			return date.Format("2006-01-02")
		}
	case model.KindEuro:
		if amount, ok := answers.ParseDecimal(input); ok {
			return fmt.Sprintf("%.2f", amount)
		}
	}
	return input
}

func setText(state *State, name, text string) {
	if strings.TrimSpace(text) == "" {
		state.Delete(name)
		return
	}
	state.Set(name, text)
}

func splitEntries(text string) []any {
	var out []any
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if msg == "" {
		return nil
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) warn(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func flattenForm(values map[string]any) string {
	out := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				out.Add(key, fmt.Sprint(item))
			}
		default:
			out.Set(key, fmt.Sprint(v))
		}
	}
	return out.Encode()
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%v\n", key, values[key])
	}
	return b.String()
}
