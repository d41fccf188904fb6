package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/lotse"
	"github.com/goliatone/go-lotse/pkg/openapi"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("lotse %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func writeAnswers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write answers: %v", err)
	}
	return path
}

func TestResolveRedirectsPersonBForSingleFiler(t *testing.T) {
	path := writeAnswers(t, "familienstand: single\n")
	out := execute(t, "", "resolve", "--step", lotse.StepPersonB, "--answers", path)

	var report decisionReport
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Allowed || report.Step != lotse.StepFamilienstand {
		t.Fatalf("unexpected decision: %+v", report)
	}
	if report.Reason != "form.lotse.skip_reason.familienstand_single" || report.Message == "" {
		t.Fatalf("reason = %q message = %q", report.Reason, report.Message)
	}
}

func TestResolveReadsStdin(t *testing.T) {
	in := `{"familienstand": "divorced", "familienstand_date": "2010-03-01", "steuerminderung": "yes"}`
	out := execute(t, in, "resolve", "--step", lotse.StepGemHaushalt, "--answers", "-")

	var report decisionReport
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Allowed || report.Step != lotse.StepHaushaltsnahe {
		t.Fatalf("unexpected decision: %+v", report)
	}
}

func TestVisibilityCommand(t *testing.T) {
	path := writeAnswers(t, "familienstand: married\nfamilienstand_date: 2000-01-31\nfamilienstand_married_lived_separated: 'no'\n")
	out := execute(t, "", "visibility", "--answers", path)

	var states visibility.States
	if err := json.Unmarshal([]byte(out), &states); err != nil {
		t.Fatalf("decode states: %v", err)
	}
	want := visibility.FieldState{Visible: true, Required: true}
	if got := states[answers.FamilienstandConfirmZusammenveranlagung]; got != want {
		t.Fatalf("confirmation = %+v", got)
	}
	if states[answers.FamilienstandZusammenveranlagung].Visible {
		t.Fatalf("joint filing question should be hidden")
	}
}

func TestOpenAPICommand(t *testing.T) {
	out := execute(t, "", "openapi")
	doc, err := openapi.Load(context.Background(), []byte(out))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Info.Version != version {
		t.Fatalf("version = %q", doc.Info.Version)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("LOTSE_TAX_YEAR", "2020")
	path := writeAnswers(t, "familienstand: widowed\nfamilienstand_date: 2020-01-02\nfamilienstand_widowed_lived_separated: 'no'\nfamilienstand_confirm_zusammenveranlagung: true\n")

	out := execute(t, "", "resolve", "--step", lotse.StepPersonB, "--answers", path)
	if !strings.Contains(out, "allowed: true") {
		t.Fatalf("expected person_b for 2020:\n%s", out)
	}

	out = execute(t, "", "--tax-year", "2022", "resolve", "--step", lotse.StepPersonB, "--answers", path)
	if !strings.Contains(out, "allowed: false") {
		t.Fatalf("expected redirect for 2022:\n%s", out)
	}
}
