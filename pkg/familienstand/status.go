// Package familienstand implements the marital status step: the decision
// table that shows and requires its sub-fields, the reducer that keeps
// in-progress answers consistent when the status changes, and the joint
// filing eligibility rule the person B step depends on.
package familienstand

import (
	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/taxperiod"
)

// Status is the filer's marital status.
type Status string

const (
	Unset    Status = ""
	Single   Status = answers.StatusSingle
	Married  Status = answers.StatusMarried
	Widowed  Status = answers.StatusWidowed
	Divorced Status = answers.StatusDivorced
)

// Statuses lists the selectable statuses in display order.
var Statuses = []Status{Single, Married, Widowed, Divorced}

// Valid reports whether s is one of the selectable statuses.
func (s Status) Valid() bool {
	for _, candidate := range Statuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Tri is a yes/no answer that may not have been given yet.
type Tri int8

const (
	Unknown Tri = iota
	Yes
	No
)

func (t Tri) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

func triOf(values answers.Store, key string) Tri {
	switch {
	case values.IsYes(key):
		return Yes
	case values.IsNo(key):
		return No
	default:
		return Unknown
	}
}

func recentOf(values answers.Store, key string, period taxperiod.Period) Tri {
	date, ok := values.Date(key)
	if !ok {
		return Unknown
	}
	if period.Recent(date) {
		return Yes
	}
	return No
}

// Key is what the decision table matches against. For married filers
// Separated and SinceRecent come from the married fields; for widowed filers
// from the widowed fields, and DateRecent compares the date of death with the
// start of the tax year.
type Key struct {
	Status      Status
	Separated   Tri
	DateRecent  Tri
	SinceRecent Tri
	JointFiling Tri
}

// Derive reduces the answers to the table key.
func Derive(values answers.Store, period taxperiod.Period) Key {
	status, _ := values.String(answers.Familienstand)
	key := Key{
		Status:      Status(status),
		JointFiling: triOf(values, answers.FamilienstandZusammenveranlagung),
	}
	switch key.Status {
	case Married:
		key.Separated = triOf(values, answers.FamilienstandMarriedLivedSeparated)
		key.SinceRecent = recentOf(values, answers.FamilienstandMarriedSeparatedSince, period)
	case Widowed:
		key.DateRecent = recentOf(values, answers.FamilienstandDate, period)
		key.Separated = triOf(values, answers.FamilienstandWidowedLivedSeparated)
		key.SinceRecent = recentOf(values, answers.FamilienstandWidowedSeparatedSince, period)
	}
	return key
}

// Eligible reports whether the answers allow joint filing with a partner,
// which is what makes the person B step reachable:
//
//	married, not separated
//	married, separated since the tax year began, joint filing chosen
//	widowed during the tax year, not separated
//	widowed during the tax year, separated since it began, joint filing chosen
//
// Missing or malformed answers are never eligible.
func Eligible(values answers.Store, period taxperiod.Period) bool {
	return Derive(values, period).Eligible()
}

// Eligible applies the joint filing rule to a derived key.
func (k Key) Eligible() bool {
	switch k.Status {
	case Married:
		return k.together()
	case Widowed:
		return k.DateRecent == Yes && k.together()
	default:
		return false
	}
}

func (k Key) together() bool {
	switch k.Separated {
	case No:
		return true
	case Yes:
		return k.SinceRecent == Yes && k.JointFiling == Yes
	default:
		return false
	}
}
