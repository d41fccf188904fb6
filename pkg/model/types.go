package model

import internalmodel "github.com/goliatone/go-lotse/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	KindText     = internalmodel.KindText
	KindTextArea = internalmodel.KindTextArea
	KindYesNo    = internalmodel.KindYesNo
	KindRadio    = internalmodel.KindRadio
	KindSelect   = internalmodel.KindSelect
	KindDate     = internalmodel.KindDate
	KindCheckbox = internalmodel.KindCheckbox
	KindEuro     = internalmodel.KindEuro
	KindInteger  = internalmodel.KindInteger
	KindEntries  = internalmodel.KindEntries
)

type Choice = internalmodel.Choice
type Field = internalmodel.Field
type NavItem = internalmodel.NavItem
type SummaryEntry = internalmodel.SummaryEntry
type SummaryStep = internalmodel.SummaryStep
type SummarySection = internalmodel.SummarySection
type Page = internalmodel.Page

// DefaultAction returns the route a step's page submits to.
func DefaultAction(step string) string {
	return internalmodel.DefaultAction(step)
}
