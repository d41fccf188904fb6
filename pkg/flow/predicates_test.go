package flow

import (
	"testing"

	"github.com/goliatone/go-lotse/pkg/answers"
)

func TestNonZeroAmount(t *testing.T) {
	t.Parallel()

	check := NonZeroAmount("first_summe", "second_summe")
	cases := []struct {
		name   string
		values map[string]any
		want   bool
	}{
		{name: "absent", values: nil, want: false},
		{name: "zero string", values: map[string]any{"first_summe": "0"}, want: false},
		{name: "german zero", values: map[string]any{"first_summe": "0,00"}, want: false},
		{name: "zero number", values: map[string]any{"first_summe": 0}, want: false},
		{name: "malformed", values: map[string]any{"first_summe": "viel"}, want: false},
		{name: "blank", values: map[string]any{"first_summe": " "}, want: false},
		{name: "amount", values: map[string]any{"first_summe": "12,50"}, want: true},
		{name: "second key", values: map[string]any{"first_summe": "0", "second_summe": 3.5}, want: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := check.Satisfied(answers.New(tc.values)); got != tc.want {
				t.Fatalf("Satisfied(%v) = %v, want %v", tc.values, got, tc.want)
			}
		})
	}
}
