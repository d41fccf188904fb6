package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/render"
)

func ibanPage() model.Page {
	return model.Page{
		Step: "iban",
		Fields: []model.Field{
			{Name: "is_person_a_account_holder", Kind: model.KindRadio, Visible: false},
			{Name: "iban", Kind: model.KindText, Visible: true, Required: true},
			{Name: "entries", Kind: model.KindEntries, Visible: true},
		},
	}
}

func TestMapErrorPayload(t *testing.T) {
	t.Parallel()

	payload := map[string][]string{
		"/body/iban":                 {"IBAN ist ungültig", " IBAN ist ungültig "},
		"$.entries[1]":               {"Eintrag fehlt"},
		"is_person_a_account_holder": {"Bitte wählen"},
		"non_field_errors":           {"Bitte prüfen Sie Ihre Angaben"},
		"request/unknown":            {"Unbekannt"},
		"":                           {"  "},
	}

	mapped := render.MapErrorPayload(ibanPage(), payload)

	wantFields := map[string][]string{
		"iban":    {"IBAN ist ungültig"},
		"entries": {"Eintrag fehlt"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Bitte prüfen Sie Ihre Angaben", "Bitte wählen", "Unbekannt"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyErrors(t *testing.T) {
	t.Parallel()

	page := ibanPage()
	render.ApplyErrors(&page, render.ErrorMapping{
		Fields: map[string][]string{"iban": {"Pflichtfeld"}},
		Form:   []string{"Fehler"},
	})

	field, _ := page.Field("iban")
	if diff := cmp.Diff([]string{"Pflichtfeld"}, field.Errors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Fehler"}, page.Errors); diff != "" {
		t.Fatalf("page errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	t.Parallel()

	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
