package flow

import (
	"strings"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

// StartStep is the pseudo step that resolves to the first step of the graph.
const StartStep = "start"

// Predicate is a pure check over the answers.
type Predicate interface {
	Satisfied(values answers.Store) bool
}

// PredicateFunc adapts a function into a Predicate.
type PredicateFunc func(values answers.Store) bool

// Satisfied delegates to the underlying function.
func (fn PredicateFunc) Satisfied(values answers.Store) bool {
	return fn(values)
}

// Prerequisite must hold for its step to be reachable. When it does not, the
// filer is sent to Redirect and shown the Reason message key.
type Prerequisite struct {
	Name     string
	Check    Predicate
	Redirect string
	Reason   string
}

// FieldKind names the input control a field is rendered with.
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

// Choice is one option of a radio, select or yes/no field.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field declares an answer collected by a step. VisibleWhen is an expression
// evaluated by pkg/visibility/expr; an empty rule always shows the field.
type Field struct {
	Name        string
	Kind        FieldKind
	Label       string
	Help        string
	Placeholder string
	Choices     []Choice
	Required    bool
	VisibleWhen string
}

// Step is one page of the wizard.
type Step struct {
	Name          string
	Title         string
	Intro         string
	Section       string
	Prerequisites []Prerequisite
	// Owns lists answer key prefixes stored by this step in addition to its
	// field names.
	Owns   []string
	Fields []Field
	// Rules overrides or extends the visibility derived from Fields.
	Rules visibility.Rules

	position int
	states   visibility.Rules
}

// Position is the zero based index of the step in the graph.
func (s Step) Position() int {
	return s.position
}

// Field returns the field declaration called name.
func (s Step) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames lists the step's field names in declaration order.
func (s Step) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// States evaluates the field visibility for in-progress values.
func (s Step) States(values answers.Store) (visibility.States, error) {
	if s.states == nil {
		return visibility.States{}, nil
	}
	return s.states.States(values)
}

// Owned reports whether key is stored by this step.
func (s Step) Owned(key string) bool {
	if _, ok := s.Field(key); ok {
		return true
	}
	for _, prefix := range s.Owns {
		if prefix != "" && strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func (s Step) unmet(values answers.Store) (Prerequisite, bool) {
	for _, prereq := range s.Prerequisites {
		if prereq.Check == nil || !prereq.Check.Satisfied(values) {
			return prereq, true
		}
	}
	return Prerequisite{}, false
}
