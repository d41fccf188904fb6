package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

func TestRulesStates(t *testing.T) {
	t.Parallel()

	rules, err := NewRules([]FieldRule{
		{Field: "person_b_street", When: `person_b_same_address != "yes"`, Required: true},
		{Field: "is_person_a_account_holder", When: "extras.joint_filing"},
		{Field: "iban", Required: true},
	}, func(values answers.Store) map[string]any {
		return map[string]any{"joint_filing": values.Equals("familienstand", "married")}
	})
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}

	got, err := rules.States(answers.New(map[string]any{
		"person_b_same_address": "yes",
		"familienstand":         "married",
	}))
	if err != nil {
		t.Fatalf("States: %v", err)
	}

	want := visibility.States{
		"person_b_street":            {},
		"is_person_a_account_holder": {Visible: true},
		"iban":                       {Visible: true, Required: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRulesRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := NewRules([]FieldRule{{Field: "a", When: "x = 1"}}, nil); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := NewRules([]FieldRule{{Field: "a"}, {Field: "a"}}, nil); err == nil {
		t.Fatalf("expected duplicate field error")
	}
	if _, err := NewRules([]FieldRule{{Field: " "}}, nil); err == nil {
		t.Fatalf("expected empty field error")
	}
}
