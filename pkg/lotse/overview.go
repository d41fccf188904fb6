package lotse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/flow"
)

// MissingMandatoryField is the message key shown for a required answer that
// has not been given.
const MissingMandatoryField = "form.lotse.missing_mandatory_field"

// Steps that collect no data worth repeating on the summary page.
var overviewIgnored = map[string]struct{}{
	StepSessionNote:  {},
	StepSummary:      {},
	StepConfirmation: {},
	StepFiling:       {},
	StepAck:          {},
}

// OverviewEntry is one answer as shown on the summary page.
type OverviewEntry struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Missing bool   `json:"missing,omitempty"`
}

// OverviewStep groups the answers collected by one step.
type OverviewStep struct {
	Step    string          `json:"step"`
	Title   string          `json:"title"`
	Entries []OverviewEntry `json:"entries"`
}

// OverviewSection groups steps under a nav section.
type OverviewSection struct {
	Section string         `json:"section"`
	Label   string         `json:"label"`
	Step    string         `json:"step"`
	Steps   []OverviewStep `json:"steps"`
}

// Overview structures values by section and step for the summary page.
// Only reachable steps and visible fields are listed. Required fields
// without an answer are flagged as missing.
func (w *Wizard) Overview(values answers.Store) ([]OverviewSection, error) {
	var out []OverviewSection
	for _, name := range w.Reachable(values) {
		if _, skip := overviewIgnored[name]; skip {
			continue
		}
		step, err := w.Step(name)
		if err != nil {
			return nil, err
		}
		states, err := step.States(values)
		if err != nil {
			return nil, fmt.Errorf("lotse: overview %q: %w", name, err)
		}

		var entries []OverviewEntry
		for _, field := range step.Fields {
			if !states.Visible(field.Name) {
				continue
			}
			if value, ok := Present(field, values); ok {
				entries = append(entries, OverviewEntry{Field: field.Name, Label: field.Label, Value: value})
				continue
			}
			if states.Required(field.Name) {
				entries = append(entries, OverviewEntry{
					Field:   field.Name,
					Label:   field.Label,
					Value:   MissingMandatoryField,
					Missing: true,
				})
			}
		}
		if len(entries) == 0 {
			continue
		}

		if len(out) == 0 || out[len(out)-1].Section != step.Section {
			start, _ := w.SectionStart(step.Section)
			out = append(out, OverviewSection{
				Section: step.Section,
				Label:   SectionLabel(step.Section),
				Step:    start,
			})
		}
		section := &out[len(out)-1]
		section.Steps = append(section.Steps, OverviewStep{Step: step.Name, Title: step.Title, Entries: entries})
	}
	return out, nil
}

// Present formats the stored answer of field for display. The boolean is
// false when there is nothing to show.
func Present(field flow.Field, values answers.Store) (string, bool) {
	if !values.Has(field.Name) {
		return "", false
	}
	raw, _ := values.Lookup(field.Name)

	switch field.Kind {
	case flow.KindYesNo:
		switch {
		case values.IsYes(field.Name):
			return "Ja", true
		case values.IsNo(field.Name):
			return "Nein", true
		}
		return "", false
	case flow.KindCheckbox:
		if values.Checked(field.Name) {
			return "Ja", true
		}
		return "Nein", true
	case flow.KindRadio, flow.KindSelect:
		value, _ := values.String(field.Name)
		if value == "none" {
			return "", false
		}
		for _, choice := range field.Choices {
			if choice.Value == value {
				return choice.Label, true
			}
		}
		return value, true
	case flow.KindDate:
		if date, ok := values.Date(field.Name); ok {
			return answers.FormatDate(date), true
		}
	case flow.KindEntries:
		if entries, ok := values.Entries(field.Name); ok && len(entries) > 0 {
			return strings.Join(entries, ", "), true
		}
		return "", false
	case flow.KindEuro:
		if amount, ok := values.Decimal(field.Name); ok {
			return strings.Replace(fmt.Sprintf("%.2f", amount), ".", ",", 1) + " €", true
		}
	case flow.KindInteger:
		if n, ok := values.Int(field.Name); ok {
			return strconv.Itoa(n), true
		}
	}

	value := strings.TrimSpace(fmt.Sprint(raw))
	if value == "" || value == "none" {
		return "", false
	}
	return value, true
}
