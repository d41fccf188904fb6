// Package taxperiod describes the assessment year a filing covers and the
// cutoff date the marital rules compare against.
package taxperiod

import (
	"fmt"
	"time"
)

// DefaultYear is the assessment year the wizard files for unless configured
// otherwise.
const DefaultYear = 2020

// Period is a calendar tax year.
type Period struct {
	Year int
}

// New returns the period for year. Years before 1900 are rejected.
func New(year int) (Period, error) {
	if year < 1900 {
		return Period{}, fmt.Errorf("taxperiod: invalid year %d", year)
	}
	return Period{Year: year}, nil
}

// Default returns the period for DefaultYear.
func Default() Period {
	return Period{Year: DefaultYear}
}

// FirstDay is the cutoff date: the first day of the tax year.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay is the last day of the tax year.
func (p Period) LastDay() time.Time {
	return time.Date(p.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// Recent reports whether date lies on or after the cutoff.
func (p Period) Recent(date time.Time) bool {
	return !date.Before(p.FirstDay())
}

// Contains reports whether date lies within the tax year.
func (p Period) Contains(date time.Time) bool {
	return p.Recent(date) && !date.After(p.LastDay())
}

func (p Period) String() string {
	return fmt.Sprintf("%d", p.Year)
}
