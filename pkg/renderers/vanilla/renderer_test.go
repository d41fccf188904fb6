package vanilla

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/render"
)

func samplePage() model.Page {
	return model.Page{
		Step:    "familienstand",
		Title:   "Familienstand",
		Intro:   `Angaben zum <strong>Familienstand</strong><script>alert(1)</script>`,
		Section: "confirmations",
		Action:  "/lotse/step/familienstand",
		Method:  "POST",
		Fields: []model.Field{
			{
				Name:     "familienstand",
				Kind:     model.KindRadio,
				Label:    "Familienstand",
				Visible:  true,
				Required: true,
				Value:    "married",
				Choices: []model.Choice{
					{Value: "single", Label: "ledig"},
					{Value: "married", Label: "verheiratet", Selected: true},
				},
			},
			{Name: "familienstand_date", Kind: model.KindDate, Label: "Datum", Visible: true, Required: true, Value: "2000-01-31"},
			{Name: "familienstand_zusammenveranlagung", Kind: model.KindYesNo, Label: "Zusammenveranlagung", Visible: false},
			{Name: "familienstand_confirm_zusammenveranlagung", Kind: model.KindCheckbox, Label: "Bestätigung", Visible: true, Checked: true},
		},
		Nav: []model.NavItem{
			{Number: 1, Label: "Erklärungen", Link: "/lotse/step/decl_incomes", Active: true},
			{Number: 2, Label: "Angaben", Link: "/lotse/step/steuernummer"},
		},
		PrevLink:   "/lotse/step/session_note",
		Redirected: true,
		Reason:     "Bitte zuerst den Familienstand angeben.",
	}
}

func TestRenderPage(t *testing.T) {
	t.Parallel()

	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), samplePage(), render.RenderOptions{
		Hidden: map[string]string{render.HiddenCSRF: "token-1"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	wants := []string{
		`<h1>Familienstand</h1>`,
		`role="status">Bitte zuerst den Familienstand angeben.</p>`,
		`<input type="hidden" name="_csrf" value="token-1">`,
		`<input type="hidden" name="_step" value="familienstand">`,
		`value="married" checked> verheiratet`,
		`<input type="date" id="lotse-familienstand_date" name="familienstand_date" value="2000-01-31"`,
		`data-field="familienstand_zusammenveranlagung" data-kind="yesno" hidden>`,
		`name="familienstand_confirm_zusammenveranlagung" value="yes" checked`,
		`<strong>Familienstand</strong>`,
		`aria-current="step"><a href="/lotse/step/decl_incomes">1. Erklärungen</a>`,
		`href="/lotse/step/session_note">Zurück</a>`,
		`<button type="submit">Weiter</button>`,
		`data-visibility-url="/lotse/visibility/familienstand"`,
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "alert(1)") {
		t.Fatalf("expected intro script to be sanitized:\n%s", html)
	}
}

func TestRenderAppliesSubmittedValuesAndErrors(t *testing.T) {
	t.Parallel()

	renderer, err := New(WithInlineAssets(false), WithVisibilityURL(nil))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), samplePage(), render.RenderOptions{
		Values: map[string]any{"familienstand_date": "31.02.2000"},
		Errors: map[string][]string{
			"/body/familienstand_date": {"Ungültiges Datum"},
			"form":                     {"Bitte prüfen Sie Ihre Angaben."},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`value="31.02.2000"`,
		`<p class="error" role="alert">Ungültiges Datum</p>`,
		`<li>Bitte prüfen Sie Ihre Angaben.</li>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "data-visibility-url") || strings.Contains(html, "<script>") {
		t.Fatalf("expected no visibility script:\n%s", html)
	}
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	renderer, err := New(WithInlineAssets(false))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	page := model.Page{
		Step:   "summary",
		Title:  "Zusammenfassung",
		Action: "/lotse/step/summary",
		Method: "POST",
		Summary: []model.SummarySection{{
			Label: "Steuermindernde Aufwendungen",
			Link:  "/lotse/step/steuerminderung_yesno",
			Steps: []model.SummaryStep{{
				Title: "Haushaltsnahe Dienstleistungen",
				Link:  "/lotse/step/haushaltsnahe",
				Entries: []model.SummaryEntry{
					{Label: "Summe", Value: "500,00 €"},
					{Label: "Art", Value: "fehlt", Missing: true},
				},
			}},
		}},
	}
	out, err := renderer.Render(context.Background(), page, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		`<h3><a href="/lotse/step/haushaltsnahe">Haushaltsnahe Dienstleistungen</a></h3>`,
		`<dt>Summe</dt><dd>500,00 €</dd>`,
		`<dd class="missing">fehlt</dd>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
}

func TestAssetsFS(t *testing.T) {
	t.Parallel()

	for _, name := range []string{StylesheetName, VisibilityScript} {
		if readAsset(name) == "" {
			t.Fatalf("expected embedded asset %q", name)
		}
	}
}
