package lotse

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/familienstand"
	"github.com/goliatone/go-lotse/pkg/flow"
)

func newWizard(t *testing.T) *Wizard {
	t.Helper()
	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func resolve(t *testing.T, w *Wizard, step string, values map[string]any) flow.Decision {
	t.Helper()
	decision, err := w.Resolve(step, answers.New(values))
	if err != nil {
		t.Fatalf("Resolve(%q): %v", step, err)
	}
	return decision
}

func TestEmbeddedDefinitionOrder(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	want := []string{
		StepDeclIncomes, StepDeclEdaten, StepSessionNote,
		StepFamilienstand, StepSteuernummer, StepPersonA, StepPersonB, StepIban,
		StepSteuerminderungYesNo, StepVorsorge, StepAussergBela, StepHaushaltsnahe,
		StepHandwerker, StepGemHaushalt, StepReligion, StepSpenden,
		StepSummary, StepConfirmation, StepFiling, StepAck,
	}
	if diff := cmp.Diff(want, w.Names()); diff != "" {
		t.Fatalf("step order mismatch (-want +got):\n%s", diff)
	}
}

func TestStartResolvesToFirstStep(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	decision := resolve(t, w, flow.StartStep, nil)
	if decision.Allowed || decision.Step != StepDeclIncomes {
		t.Fatalf("expected redirect to %s, got %+v", StepDeclIncomes, decision)
	}
}

func TestUnknownStepIsAnError(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	if _, err := w.Resolve("nonexistent", answers.New(nil)); !errors.Is(err, flow.ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

func TestPersonBRedirectsWhenNotEligible(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	cases := map[string]map[string]any{
		"no answers": nil,
		"single":     {"familienstand": "single"},
		"divorced":   {"familienstand": "divorced", "familienstand_date": "2015-03-01"},
		"unknown":    {"familienstand": "complicated"},
		"married without separation answer": {
			"familienstand": "married", "familienstand_date": "2000-01-31",
		},
		"married separated before tax year": {
			"familienstand":                               "married",
			"familienstand_married_lived_separated":       "yes",
			"familienstand_married_lived_separated_since": "2019-06-01",
			"familienstand_zusammenveranlagung":           "yes",
		},
		"widowed before tax year": {
			"familienstand":                         "widowed",
			"familienstand_date":                    "2018-05-05",
			"familienstand_widowed_lived_separated": "no",
		},
		"widowed without date": {
			"familienstand":                         "widowed",
			"familienstand_widowed_lived_separated": "no",
		},
	}

	for name, values := range cases {
		values := values
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			decision := resolve(t, w, StepPersonB, values)
			if decision.Allowed || decision.Redirect != StepFamilienstand {
				t.Fatalf("expected redirect to familienstand, got %+v", decision)
			}
			if decision.Reason != "form.lotse.skip_reason.familienstand_single" {
				t.Fatalf("unexpected reason %q", decision.Reason)
			}
		})
	}
}

func TestPersonBWidowedCutoff(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	widowed := func(date string) map[string]any {
		return map[string]any{
			"familienstand":                             "widowed",
			"familienstand_date":                        date,
			"familienstand_widowed_lived_separated":     "no",
			"familienstand_confirm_zusammenveranlagung": true,
		}
	}

	if d := resolve(t, w, StepPersonB, widowed("2020-01-02")); !d.Allowed {
		t.Fatalf("widowed one day into the tax year should allow person_b, got %+v", d)
	}
	if d := resolve(t, w, StepPersonB, widowed("2020-01-01")); !d.Allowed {
		t.Fatalf("widowed on the first day of the tax year should allow person_b, got %+v", d)
	}
	if d := resolve(t, w, StepPersonB, widowed("2019-12-31")); d.Allowed || d.Step != StepFamilienstand {
		t.Fatalf("widowed on the last day of the prior year should redirect, got %+v", d)
	}
}

func TestPersonBMarriedSeparatedRecently(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	separated := func(joint string) map[string]any {
		return map[string]any{
			"familienstand":                               "married",
			"familienstand_date":                          "2000-01-31",
			"familienstand_married_lived_separated":       "yes",
			"familienstand_married_lived_separated_since": "2020-01-02",
			"familienstand_zusammenveranlagung":           joint,
		}
	}

	if d := resolve(t, w, StepPersonB, separated("yes")); !d.Allowed {
		t.Fatalf("joint filing chosen should allow person_b, got %+v", d)
	}
	if d := resolve(t, w, StepPersonB, separated("no")); d.Allowed || d.Step != StepFamilienstand {
		t.Fatalf("joint filing declined should redirect, got %+v", d)
	}
}

func TestDeductionStepsRequireOptIn(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	for _, step := range DeductionSteps {
		for _, optIn := range []any{nil, "no"} {
			values := map[string]any{"familienstand": "divorced"}
			if optIn != nil {
				values["steuerminderung"] = optIn
			}
			d := resolve(t, w, step, values)
			if d.Allowed || d.Step != StepSteuerminderungYesNo {
				t.Fatalf("%s with opt-in %v: expected redirect to steuerminderung_yesno, got %+v", step, optIn, d)
			}
			if d.Reason != "form.lotse.skip_reason.steuerminderung_is_no" {
				t.Fatalf("%s: unexpected reason %q", step, d.Reason)
			}
		}
	}
}

func TestGemHaushaltChain(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	values := map[string]any{
		"steuerminderung": "yes",
		"familienstand":   "divorced",
	}
	d := resolve(t, w, StepGemHaushalt, values)
	if d.Allowed || d.Step != StepHaushaltsnahe {
		t.Fatalf("expected redirect to haushaltsnahe, got %+v", d)
	}
	if d.Reason != "form.lotse.skip_reason.stmind_gem_haushalt.no_handwerker_haushaltsnahe" {
		t.Fatalf("unexpected reason %q", d.Reason)
	}

	for _, amount := range []any{"0", "0,00", 0, "  ", "abc"} {
		values["stmind_haushaltsnahe_summe"] = amount
		values["stmind_handwerker_summe"] = amount
		if d := resolve(t, w, StepGemHaushalt, values); d.Allowed || d.Step != StepHaushaltsnahe {
			t.Fatalf("amount %#v: expected redirect to haushaltsnahe, got %+v", amount, d)
		}
	}
	delete(values, "stmind_handwerker_summe")

	values["stmind_haushaltsnahe_summe"] = "500.00"
	if d := resolve(t, w, StepGemHaushalt, values); !d.Allowed {
		t.Fatalf("expected access once haushaltsnahe is done, got %+v", d)
	}

	delete(values, "stmind_haushaltsnahe_summe")
	values["stmind_handwerker_summe"] = "200,00"
	if d := resolve(t, w, StepGemHaushalt, values); !d.Allowed {
		t.Fatalf("expected access with handwerker costs, got %+v", d)
	}
}

func TestGemHaushaltRedirectsJointFilers(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	cases := map[string]map[string]any{
		"married": {
			"steuerminderung":                       "yes",
			"familienstand":                         "married",
			"familienstand_married_lived_separated": "no",
			"stmind_haushaltsnahe_summe":            "10",
		},
		"status missing": {
			"steuerminderung":            "yes",
			"stmind_haushaltsnahe_summe": "10",
		},
		"widowed jointly": {
			"steuerminderung":                       "yes",
			"familienstand":                         "widowed",
			"familienstand_date":                    "2020-03-01",
			"familienstand_widowed_lived_separated": "no",
			"stmind_haushaltsnahe_summe":            "10",
		},
	}
	for name, values := range cases {
		d := resolve(t, w, StepGemHaushalt, values)
		if d.Allowed || d.Step != StepFamilienstand {
			t.Fatalf("%s: expected redirect to familienstand, got %+v", name, d)
		}
		if d.Prerequisite != "not_filing_jointly" {
			t.Fatalf("%s: unexpected prerequisite %q", name, d.Prerequisite)
		}
	}
}

func TestFirstUnmetPrerequisiteWins(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	d := resolve(t, w, StepGemHaushalt, map[string]any{"familienstand": "married"})
	if d.Step != StepSteuerminderungYesNo || d.Prerequisite != "steuerminderung_opt_in" {
		t.Fatalf("expected the opt-in to decide first, got %+v", d)
	}
}

func TestStatusRoundTripClearsConfirmation(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	form := familienstand.NewForm(answers.New(nil), w.Period())
	form.Set(answers.Familienstand, "married")
	form.Set(answers.FamilienstandMarriedLivedSeparated, "no")
	form.Set(answers.FamilienstandConfirmZusammenveranlagung, true)
	if !form.Values().Checked(answers.FamilienstandConfirmZusammenveranlagung) {
		t.Fatalf("confirmation should be stored while married")
	}

	form.Set(answers.Familienstand, "single")
	form.Set(answers.Familienstand, "married")

	values := form.Values()
	if values.Checked(answers.FamilienstandConfirmZusammenveranlagung) {
		t.Fatalf("confirmation must read as unchecked after married -> single -> married")
	}

	step, err := w.Step(StepFamilienstand)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	states, err := step.States(values)
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if states.Visible(answers.FamilienstandConfirmZusammenveranlagung) {
		t.Fatalf("confirmation should stay hidden until the separation question is answered")
	}
}

func TestFamilienstandStepUsesDecisionTable(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	step, err := w.Step(StepFamilienstand)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	values := answers.New(map[string]any{
		"familienstand":                         "married",
		"familienstand_married_lived_separated": "no",
	})
	got, err := step.States(values)
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if diff := cmp.Diff(familienstand.Evaluate(values, w.Period()), got); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestNextSkipsUnreachableSteps(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	single := answers.New(map[string]any{"familienstand": "single", "steuerminderung": "no"})

	next, ok, err := w.Next(StepPersonA, single)
	if err != nil || !ok || next != StepIban {
		t.Fatalf("Next(person_a) = %q, %v, %v; want iban", next, ok, err)
	}
	next, ok, err = w.Next(StepSteuerminderungYesNo, single)
	if err != nil || !ok || next != StepSummary {
		t.Fatalf("Next(steuerminderung_yesno) = %q, %v, %v; want summary", next, ok, err)
	}
	prev, ok, err := w.Prev(StepSummary, single)
	if err != nil || !ok || prev != StepSteuerminderungYesNo {
		t.Fatalf("Prev(summary) = %q, %v, %v; want steuerminderung_yesno", prev, ok, err)
	}
}

func TestPruneDropsDependentData(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	values := DebugData().
		With(answers.Familienstand, "single").
		With(answers.Steuerminderung, answers.No)

	pruned, err := w.Prune(values)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	for _, key := range pruned.Keys() {
		if strings.HasPrefix(key, answers.PersonBPrefix) {
			t.Fatalf("person_b answer %q survived", key)
		}
	}
	for _, key := range []string{
		answers.StmindVorsorgeSumme,
		answers.StmindHaushaltsnaheSumme,
		answers.FamilienstandDate,
		answers.FamilienstandConfirmZusammenveranlagung,
		answers.IsPersonAAccountHolder,
	} {
		if pruned.Present(key) {
			t.Fatalf("expected %q to be pruned", key)
		}
	}
	if !pruned.Equals(answers.IBAN, "DE35133713370000012345") {
		t.Fatalf("iban should survive pruning")
	}
}

func TestDebugDataReachesSummary(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	d, err := w.Resolve(DebugStep, DebugData())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("debug data should reach the summary, got %+v", d)
	}
	for _, step := range []string{StepPersonB, StepGemHaushalt, StepAck} {
		ok, err := w.Accessible(step, DebugData())
		if err != nil {
			t.Fatalf("Accessible(%s): %v", step, err)
		}
		want := step != StepGemHaushalt
		if ok != want {
			t.Fatalf("Accessible(%s) = %v, want %v", step, ok, want)
		}
	}
}

func TestNavMarksActiveSection(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	items, err := w.Nav(StepVorsorge)
	if err != nil {
		t.Fatalf("Nav: %v", err)
	}
	want := []NavItem{
		{Number: 1, Section: "confirmations", Label: "form.lotse.section.confirmations", Step: StepDeclIncomes},
		{Number: 2, Section: "personal_data", Label: "form.lotse.section.personal_data", Step: StepSteuernummer},
		{Number: 3, Section: "steuerminderungen", Label: "form.lotse.section.steuerminderungen", Step: StepSteuerminderungYesNo, Active: true},
		{Number: 4, Section: "summary", Label: "form.lotse.section.summary", Step: StepSummary},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("nav mismatch (-want +got):\n%s", diff)
	}
	if _, err := w.Nav("nonexistent"); !errors.Is(err, flow.ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

func TestOverviewGroupsAnswers(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	sections, err := w.Overview(DebugData())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	var names []string
	for _, section := range sections {
		names = append(names, section.Section)
	}
	if diff := cmp.Diff([]string{"confirmations", "personal_data", "steuerminderungen"}, names); diff != "" {
		t.Fatalf("section mismatch (-want +got):\n%s", diff)
	}

	entries := map[string]OverviewEntry{}
	for _, section := range sections {
		for _, step := range section.Steps {
			if step.Step == StepGemHaushalt || step.Step == StepSummary {
				t.Fatalf("step %q should not be listed", step.Step)
			}
			for _, entry := range step.Entries {
				entries[entry.Field] = entry
			}
		}
	}
	checks := map[string]string{
		"familienstand":              "verheiratet / in eingetragener Lebenspartnerschaft",
		"familienstand_date":         "31.01.2000",
		"person_b_same_address":      "Ja",
		"stmind_haushaltsnahe_summe": "500,00 €",
		"stmind_handwerker_entries":  "Renovierung Badezimmer",
		"person_a_street_number":     "42",
	}
	for field, want := range checks {
		if got := entries[field].Value; got != want {
			t.Fatalf("%s = %q, want %q", field, got, want)
		}
	}
	if _, listed := entries["person_b_street"]; listed {
		t.Fatalf("hidden person_b address should not be listed")
	}
}

func TestOverviewFlagsMissingRequiredAnswers(t *testing.T) {
	t.Parallel()

	w := newWizard(t)
	sections, err := w.Overview(answers.New(map[string]any{"steuernummer_exists": "yes"}))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	var missing []string
	for _, section := range sections {
		for _, step := range section.Steps {
			if step.Step != StepSteuernummer {
				continue
			}
			for _, entry := range step.Entries {
				if entry.Missing {
					missing = append(missing, entry.Field)
				}
			}
		}
	}
	if diff := cmp.Diff([]string{"bundesland", "steuernummer"}, missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}
