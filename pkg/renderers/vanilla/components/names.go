package components

import "github.com/goliatone/go-lotse/pkg/model"

// Component names used by the default registry.
const (
	NameInput    = "input"
	NameTextarea = "textarea"
	NameYesNo    = "yesno"
	NameRadio    = "radio"
	NameSelect   = "select"
	NameCheckbox = "checkbox"
	NameEntries  = "entries"
)

// NameFor returns the component that renders fields of kind.
func NameFor(kind model.FieldKind) string {
	switch kind {
	case model.KindTextArea:
		return NameTextarea
	case model.KindYesNo:
		return NameYesNo
	case model.KindRadio:
		return NameRadio
	case model.KindSelect:
		return NameSelect
	case model.KindCheckbox:
		return NameCheckbox
	case model.KindEntries:
		return NameEntries
	default:
		return NameInput
	}
}
