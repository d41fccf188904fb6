package taxperiod

import (
	"testing"
	"time"
)

func TestPeriodCutoff(t *testing.T) {
	t.Parallel()

	p := Default()
	cases := []struct {
		name   string
		date   time.Time
		recent bool
		inside bool
	}{
		{"last day of prior year", time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), false, false},
		{"first day", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true, true},
		{"one day in", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), true, true},
		{"next year", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), true, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := p.Recent(tc.date); got != tc.recent {
				t.Fatalf("Recent(%v) = %v, want %v", tc.date, got, tc.recent)
			}
			if got := p.Contains(tc.date); got != tc.inside {
				t.Fatalf("Contains(%v) = %v, want %v", tc.date, got, tc.inside)
			}
		})
	}
}

func TestNewRejectsInvalidYear(t *testing.T) {
	t.Parallel()

	if _, err := New(0); err == nil {
		t.Fatalf("expected error for year 0")
	}
	p, err := New(2021)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.FirstDay().Year() != 2021 {
		t.Fatalf("unexpected first day %v", p.FirstDay())
	}
}
