package familienstand

import (
	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/taxperiod"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

// Fields lists every field the marital status table governs.
var Fields = []string{
	answers.Familienstand,
	answers.FamilienstandDate,
	answers.FamilienstandMarriedLivedSeparated,
	answers.FamilienstandMarriedSeparatedSince,
	answers.FamilienstandWidowedLivedSeparated,
	answers.FamilienstandWidowedSeparatedSince,
	answers.FamilienstandZusammenveranlagung,
	answers.FamilienstandConfirmZusammenveranlagung,
}

// Pattern matches a Key. Zero values match anything.
type Pattern struct {
	Status      Status
	Separated   Tri
	DateRecent  Tri
	SinceRecent Tri
}

// Matches reports whether key satisfies every constrained part of p.
func (p Pattern) Matches(key Key) bool {
	if p.Status != Unset && p.Status != key.Status {
		return false
	}
	if p.Separated != Unknown && p.Separated != key.Separated {
		return false
	}
	if p.DateRecent != Unknown && p.DateRecent != key.DateRecent {
		return false
	}
	if p.SinceRecent != Unknown && p.SinceRecent != key.SinceRecent {
		return false
	}
	return true
}

type rowSpec struct {
	name    string
	pattern Pattern
	show    []string
}

const (
	status         = answers.Familienstand
	date           = answers.FamilienstandDate
	marriedSep     = answers.FamilienstandMarriedLivedSeparated
	marriedSince   = answers.FamilienstandMarriedSeparatedSince
	widowedSep     = answers.FamilienstandWidowedLivedSeparated
	widowedSince   = answers.FamilienstandWidowedSeparatedSince
	jointFiling    = answers.FamilienstandZusammenveranlagung
	confirmJointly = answers.FamilienstandConfirmZusammenveranlagung
)

// rows are ordered most specific first. Every shown field is required.
var rows = []rowSpec{
	{"single", Pattern{Status: Single}, []string{status}},
	{"married_together", Pattern{Status: Married, Separated: No}, []string{status, date, marriedSep, confirmJointly}},
	{"married_separated_recently", Pattern{Status: Married, Separated: Yes, SinceRecent: Yes}, []string{status, date, marriedSep, marriedSince, jointFiling}},
	{"married_separated", Pattern{Status: Married, Separated: Yes}, []string{status, date, marriedSep, marriedSince}},
	{"married", Pattern{Status: Married}, []string{status, date, marriedSep}},
	{"widowed_recently_together", Pattern{Status: Widowed, DateRecent: Yes, Separated: No}, []string{status, date, widowedSep, confirmJointly}},
	{"widowed_recently_separated_recently", Pattern{Status: Widowed, DateRecent: Yes, Separated: Yes, SinceRecent: Yes}, []string{status, date, widowedSep, widowedSince, jointFiling}},
	{"widowed_recently_separated", Pattern{Status: Widowed, DateRecent: Yes, Separated: Yes}, []string{status, date, widowedSep, widowedSince}},
	{"widowed_recently", Pattern{Status: Widowed, DateRecent: Yes}, []string{status, date, widowedSep}},
	{"widowed", Pattern{Status: Widowed}, []string{status, date}},
	{"divorced", Pattern{Status: Divorced}, []string{status, date}},
	{"unset", Pattern{}, []string{status}},
}

// Table returns the marital status decision table for period.
func Table(period taxperiod.Period) visibility.Table[Key] {
	tableRows := make([]visibility.Row[Key], 0, len(rows))
	for _, spec := range rows {
		pattern := spec.pattern
		effects := make(map[string]visibility.Effect, len(spec.show))
		for _, field := range spec.show {
			effects[field] = visibility.ShowRequired
		}
		tableRows = append(tableRows, visibility.Row[Key]{
			Name:    spec.name,
			Match:   pattern.Matches,
			Effects: effects,
		})
	}
	return visibility.Table[Key]{
		Fields: append([]string(nil), Fields...),
		Rows:   tableRows,
		Derive: func(values answers.Store) Key {
			return Derive(values, period)
		},
	}
}

// Evaluate returns {field: {visible, required}} for the marital status step.
func Evaluate(values answers.Store, period taxperiod.Period) visibility.States {
	states, _ := Table(period).Evaluate(Derive(values, period))
	return states
}

// Rules exposes the table as visibility.Rules.
func Rules(period taxperiod.Period) visibility.Rules {
	return Table(period)
}
