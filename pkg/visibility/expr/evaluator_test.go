package expr

import (
	"testing"
	"time"

	"github.com/goliatone/go-lotse/pkg/visibility"
)

func mustEval(t *testing.T, rule string, ctx visibility.Context) bool {
	t.Helper()
	ok, err := New().Eval("field", rule, ctx)
	if err != nil {
		t.Fatalf("Eval(%q) returned error: %v", rule, err)
	}
	return ok
}

func TestEvaluatorStringEquality(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{Values: map[string]any{"steuerminderung": "yes"}}

	if !mustEval(t, `steuerminderung == "yes"`, ctx) {
		t.Fatalf("expected quoted comparison to hold")
	}
	if !mustEval(t, `steuerminderung == yes`, ctx) {
		t.Fatalf("expected bare word comparison to hold")
	}
	if mustEval(t, `steuerminderung != 'yes'`, ctx) {
		t.Fatalf("expected single quoted inequality to fail")
	}
	if mustEval(t, `steuerminderung == "yes"`, visibility.Context{}) {
		t.Fatalf("expected comparison against a missing value to fail")
	}
}

func TestEvaluatorBooleanAndPresence(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{Values: map[string]any{
		"confirm": "on",
		"empty":   "",
		"flag":    false,
	}}

	if !mustEval(t, "confirm == true", ctx) {
		t.Fatalf("expected checkbox value on to equal true")
	}
	if !mustEval(t, "confirm", ctx) {
		t.Fatalf("expected filled value to be truthy")
	}
	if !mustEval(t, "!empty", ctx) {
		t.Fatalf("expected empty string to be falsy")
	}
	if !mustEval(t, "!missing", ctx) {
		t.Fatalf("expected missing value to be falsy")
	}
	if !mustEval(t, "flag != null", ctx) {
		t.Fatalf("expected present false value to be non-null")
	}
	if !mustEval(t, "missing == null", ctx) {
		t.Fatalf("expected missing value to equal null")
	}
}

func TestEvaluatorDateOrdering(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rule  string
		value any
		want  bool
	}{
		{`familienstand_date >= "2020-01-01"`, "02.01.2020", true},
		{`familienstand_date >= "2020-01-01"`, "31.12.2019", false},
		{`familienstand_date >= 2020-01-01`, "2020-01-01", true},
		{`familienstand_date > "2020-01-01"`, "2020-01-01", false},
		{`familienstand_date < "2020-01-01"`, time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{`familienstand_date <= "2020-01-01"`, "garbage", false},
	}
	for _, tc := range cases {
		ctx := visibility.Context{Values: map[string]any{"familienstand_date": tc.value}}
		if got := mustEval(t, tc.rule, ctx); got != tc.want {
			t.Fatalf("%s with %v: got %v want %v", tc.rule, tc.value, got, tc.want)
		}
	}
}

func TestEvaluatorNumberOrdering(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{Values: map[string]any{"count": 2, "amount": "1.234,50"}}

	if !mustEval(t, "count > 1 && count <= 2", ctx) {
		t.Fatalf("expected count range to hold")
	}
	if !mustEval(t, "amount > 1000", ctx) {
		t.Fatalf("expected german formatted amount to compare numerically")
	}
	if mustEval(t, "missing > 0", ctx) {
		t.Fatalf("expected missing value to fail ordering")
	}
}

func TestEvaluatorExtrasReference(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{
		Values: map[string]any{"since": "2020-03-01"},
		Extras: map[string]any{
			"cutoff":       time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			"joint_filing": true,
		},
	}

	if !mustEval(t, "since >= extras.cutoff", ctx) {
		t.Fatalf("expected date to be after extras cutoff")
	}
	if !mustEval(t, "extras.joint_filing && (since || missing)", ctx) {
		t.Fatalf("expected composition with extras to hold")
	}
	if mustEval(t, "extras.unknown", ctx) {
		t.Fatalf("expected unknown extra to be falsy")
	}
}

func TestEvaluatorDotLookup(t *testing.T) {
	t.Parallel()

	nested := visibility.Context{Values: map[string]any{
		"person_b": map[string]any{"same_address": "yes"},
	}}
	if !mustEval(t, `person_b.same_address == "yes"`, nested) {
		t.Fatalf("expected nested lookup")
	}

	flat := visibility.Context{Values: map[string]any{"person_b.same_address": "no"}}
	if !mustEval(t, `person_b.same_address == "no"`, flat) {
		t.Fatalf("expected flattened dotted key lookup")
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		"a = 1",
		"a & b",
		"a | b",
		`a == "unterminated`,
		"(a == 1",
		"a ==",
		"== 1",
		"a > true",
	} {
		program, err := Compile(rule)
		if err == nil {
			if _, err = program.Eval(visibility.Context{Values: map[string]any{"a": 1}}); err == nil {
				t.Fatalf("expected %q to fail", rule)
			}
		}
	}
}

func TestEmptyRuleHolds(t *testing.T) {
	t.Parallel()

	if !mustEval(t, "   ", visibility.Context{}) {
		t.Fatalf("expected empty rule to hold")
	}
	if MustCompile("").String() != "" {
		t.Fatalf("expected empty source")
	}
}
