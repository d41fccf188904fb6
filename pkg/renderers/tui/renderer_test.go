package tui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/render"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

type stubDriver struct {
	inputs     []string
	selectIdx  []int
	confirm    []bool
	textAreas  []string
	asked      []string
	infos      []string
	inputPos   int
	selectPos  int
	confirmPos int
	textPos    int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func maritalPage() model.Page {
	return model.Page{
		Step:  "familienstand",
		Title: "Familienstand",
		Fields: []model.Field{
			{
				Name:     "familienstand",
				Kind:     model.KindRadio,
				Label:    "Familienstand",
				Visible:  true,
				Required: true,
				Choices:  []model.Choice{{Value: "single", Label: "ledig"}, {Value: "married", Label: "verheiratet"}},
			},
			{Name: "familienstand_date", Kind: model.KindDate, Label: "Seit", Visible: false},
			{Name: "familienstand_confirm_zusammenveranlagung", Kind: model.KindCheckbox, Label: "Zusammenveranlagung", Visible: false},
		},
	}
}

// marriedStates reveals the date and confirmation once "married" is chosen.
func marriedStates(_ context.Context, _ string, values map[string]any) (visibility.States, error) {
	married := values["familienstand"] == "married"
	return visibility.States{
		"familienstand":                             {Visible: true, Required: true},
		"familienstand_date":                        {Visible: married, Required: married},
		"familienstand_confirm_zusammenveranlagung": {Visible: married, Required: married},
	}, nil
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	return out
}

func TestRenderFollowsVisibility(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{selectIdx: []int{1}, inputs: []string{"31.01.2000"}, confirm: []bool{true}}
	renderer, err := New(WithPromptDriver(driver), WithStates(marriedStates))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), maritalPage(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"familienstand":                             "married",
		"familienstand_date":                        "2000-01-31",
		"familienstand_confirm_zusammenveranlagung": true,
	}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Familienstand *", "Seit *", "Zusammenveranlagung *"}, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSkipsHiddenFields(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{selectIdx: []int{0}}
	renderer, err := New(WithPromptDriver(driver), WithStates(marriedStates))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), maritalPage(), render.RenderOptions{
		Values: map[string]any{"familienstand_date": "2000-01-31"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"familienstand": "single"}, decode(t, out)); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if len(driver.asked) != 1 {
		t.Fatalf("expected a single prompt, got %v", driver.asked)
	}
}

func TestRenderShowsRedirectReasonAndErrors(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"1.234,5"}}
	renderer, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	page := model.Page{
		Step:       "haushaltsnahe",
		Title:      "Haushaltsnahe Dienstleistungen",
		Redirected: true,
		Reason:     "Bitte zuerst Haushaltsnahe Dienstleistungen angeben.",
		Fields:     []model.Field{{Name: "stmind_haushaltsnahe_summe", Kind: model.KindEuro, Label: "Summe", Visible: true}},
	}

	out, err := renderer.Render(context.Background(), page, render.RenderOptions{
		Errors: map[string][]string{"stmind_haushaltsnahe_summe": {"ungültig"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "stmind_haushaltsnahe_summe=1234.50\n" {
		t.Fatalf("unexpected output %q", out)
	}
	want := []string{
		"Bitte zuerst Haushaltsnahe Dienstleistungen angeben.",
		"Haushaltsnahe Dienstleistungen",
		"! Summe: ungültig",
	}
	if diff := cmp.Diff(want, driver.infos); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredInputIsValidated(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{""}}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	page := model.Page{
		Step:   "iban",
		Fields: []model.Field{{Name: "iban", Kind: model.KindText, Label: "IBAN", Visible: true, Required: true}},
	}
	if _, err := renderer.Render(context.Background(), page, render.RenderOptions{}); !errors.Is(err, errRequired) {
		t.Fatalf("expected required error, got %v", err)
	}
}

func TestEntriesAreSplitPerLine(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{textAreas: []string{"Gartenarbeiten\n\n Putzhilfe \n"}}
	renderer, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	page := model.Page{
		Step:   "haushaltsnahe",
		Fields: []model.Field{{Name: "stmind_haushaltsnahe_entries", Kind: model.KindEntries, Label: "Art", Visible: true}},
	}
	out, err := renderer.Render(context.Background(), page, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "stmind_haushaltsnahe_entries=Gartenarbeiten&stmind_haushaltsnahe_entries=Putzhilfe" {
		t.Fatalf("unexpected output %q", out)
	}
	if renderer.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}
