package model

import (
	"testing"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/flow"
)

func TestDefaultLabeler(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                        "",
		"  familienstand ":        "Familienstand",
		"steuernummer_exists":     "Steuernummer Exists",
		"stmind_handwerker_summe": "Handwerker Summe",
		"stmind_beh_kfz_summe":    "Beh Kfz Summe",
		"person_b_plz":            "PLZ",
		"person_a_idnr":           "IdNr",
		"person_a_":               "Person A",
		"iban":                    "IBAN",
		"straßeNummer2":           "Straße Nummer 2",
		"ÜBERWEISUNG-datum":       "Überweisung Datum",
	}
	for name, want := range tests {
		if got := DefaultLabeler(name); got != want {
			t.Errorf("DefaultLabeler(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestBuilderLabelsFieldsWithoutLabel(t *testing.T) {
	t.Parallel()

	step := flow.Step{
		Name: "haushaltsnahe",
		Fields: []flow.Field{
			{Name: "stmind_haushaltsnahe_summe", Kind: flow.KindEuro},
			{Name: "stmind_handwerker_summe", Kind: flow.KindEuro, Label: "Handwerkerleistungen"},
		},
	}

	page, err := New(Options{}).Build(step, answers.New(nil), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	derived, _ := page.Field("stmind_haushaltsnahe_summe")
	if derived.Label != "Haushaltsnahe Summe" {
		t.Fatalf("derived label = %q", derived.Label)
	}
	declared, _ := page.Field("stmind_handwerker_summe")
	if declared.Label != "Handwerkerleistungen" {
		t.Fatalf("declared label = %q", declared.Label)
	}

	custom, err := New(Options{Labeler: func(string) string { return "x" }}).Build(step, answers.New(nil), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if f, _ := custom.Field("stmind_haushaltsnahe_summe"); f.Label != "x" {
		t.Fatalf("custom labeler ignored: %q", f.Label)
	}
}
