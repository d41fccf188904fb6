package visibility

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lotse/pkg/answers"
)

type switchKey struct {
	on bool
}

func switchTable() Table[switchKey] {
	return Table[switchKey]{
		Fields: []string{"detail", "note"},
		Rows: []Row[switchKey]{
			{
				Name:    "on",
				Match:   func(k switchKey) bool { return k.on },
				Effects: map[string]Effect{"detail": ShowRequired, "note": ShowOptional},
			},
		},
		Derive: func(values answers.Store) switchKey {
			return switchKey{on: values.Checked("switch")}
		},
	}
}

func TestTableFirstMatchAndDefaultHidden(t *testing.T) {
	t.Parallel()

	table := switchTable()
	if err := table.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	on, row := table.Evaluate(switchKey{on: true})
	if row != "on" {
		t.Fatalf("expected row on, got %q", row)
	}
	want := States{"detail": {Visible: true, Required: true}, "note": {Visible: true}}
	if diff := cmp.Diff(want, on); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}

	off, err := table.States(answers.New(nil))
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if diff := cmp.Diff([]string{"detail", "note"}, off.Hidden()); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
}

func TestTableValidateRejectsUngovernedField(t *testing.T) {
	t.Parallel()

	table := switchTable()
	table.Rows[0].Effects["other"] = ShowOptional
	if err := table.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestStatesHelpers(t *testing.T) {
	t.Parallel()

	states := States{"a": ShowRequired.State(), "b": Hide.State()}
	if !states.Visible("ungoverned") {
		t.Fatalf("ungoverned fields must be visible")
	}
	if !states.Required("a") || states.Required("b") {
		t.Fatalf("unexpected required flags")
	}

	cleared := Clear(answers.New(map[string]any{"a": "1", "b": "2", "c": "3"}), states)
	if diff := cmp.Diff([]string{"a", "c"}, cleared.Keys()); diff != "" {
		t.Fatalf("clear mismatch (-want +got):\n%s", diff)
	}
}

func TestCombineMergesInOrder(t *testing.T) {
	t.Parallel()

	first := RulesFunc(func(answers.Store) (States, error) {
		return States{"a": Hide.State()}, nil
	})
	second := RulesFunc(func(answers.Store) (States, error) {
		return States{"a": ShowOptional.State(), "b": ShowRequired.State()}, nil
	})

	got, err := Combine(first, nil, second).States(answers.New(nil))
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	want := States{"a": {Visible: true}, "b": {Visible: true, Required: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("combine mismatch (-want +got):\n%s", diff)
	}
}
