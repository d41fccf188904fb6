package model

// FieldKind mirrors flow.FieldKind so renderers do not depend on the flow
// package.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextArea FieldKind = "textarea"
	KindYesNo    FieldKind = "yesno"
	KindRadio    FieldKind = "radio"
	KindSelect   FieldKind = "select"
	KindDate     FieldKind = "date"
	KindCheckbox FieldKind = "checkbox"
	KindEuro     FieldKind = "euro"
	KindInteger  FieldKind = "integer"
	KindEntries  FieldKind = "entries"
)

// Choice is one selectable option.
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Field is a single input of a wizard page. Hidden fields stay in the model
// with Visible=false so client-side scripts can reveal them without another
// round trip.
type Field struct {
	Name        string    `json:"name"`
	Kind        FieldKind `json:"kind"`
	Label       string    `json:"label,omitempty"`
	Help        string    `json:"help,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Choices     []Choice  `json:"choices,omitempty"`
	Visible     bool      `json:"visible"`
	Required    bool      `json:"required"`
	// Rule is the expression that controls visibility, if any.
	Rule string `json:"rule,omitempty"`
	// Value is the stored answer formatted for the input control.
	Value   string   `json:"value,omitempty"`
	Entries []string `json:"entries,omitempty"`
	Checked bool     `json:"checked,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// NavItem is one section of the header navigation.
type NavItem struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
	Link   string `json:"link,omitempty"`
	Active bool   `json:"active"`
}

// SummaryEntry is one answer on the summary page.
type SummaryEntry struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Missing bool   `json:"missing,omitempty"`
}

// SummaryStep groups the entries collected by one step.
type SummaryStep struct {
	Title   string         `json:"title"`
	Link    string         `json:"link,omitempty"`
	Entries []SummaryEntry `json:"entries"`
}

// SummarySection groups summary steps under a navigation section.
type SummarySection struct {
	Label string        `json:"label"`
	Link  string        `json:"link,omitempty"`
	Steps []SummaryStep `json:"steps"`
}

// Page is what renderers consume: one step of the wizard with its fields,
// navigation and any feedback from the last submission.
type Page struct {
	Step    string `json:"step"`
	Title   string `json:"title"`
	Intro   string `json:"intro,omitempty"`
	Section string `json:"section,omitempty"`
	// Action is the URL the page submits to.
	Action string  `json:"action"`
	Method string  `json:"method"`
	Fields []Field `json:"fields"`

	Nav      []NavItem        `json:"nav,omitempty"`
	PrevLink string           `json:"prevLink,omitempty"`
	Summary  []SummarySection `json:"summary,omitempty"`

	// Redirected is set when the filer asked for another step and was sent
	// here; Reason carries the explanation.
	Redirected bool     `json:"redirected,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Errors     []string `json:"errors,omitempty"`

	Locale   string            `json:"locale,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Field returns a pointer to the field called name.
func (p *Page) Field(name string) (*Field, bool) {
	for i := range p.Fields {
		if p.Fields[i].Name == name {
			return &p.Fields[i], true
		}
	}
	return nil, false
}

// VisibleFields returns the fields currently shown.
func (p Page) VisibleFields() []Field {
	out := make([]Field, 0, len(p.Fields))
	for _, field := range p.Fields {
		if field.Visible {
			out = append(out, field)
		}
	}
	return out
}
