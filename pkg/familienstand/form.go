package familienstand

import (
	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/taxperiod"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

// Form tracks the in-progress values of the marital status step. Every change
// re-evaluates the decision table and drops values whose field became hidden,
// so a value can never outlive the condition that revealed it.
type Form struct {
	period taxperiod.Period
	values answers.Store
	states visibility.States
}

// NewForm starts a form from previously stored answers.
func NewForm(values answers.Store, period taxperiod.Period) *Form {
	f := &Form{period: period, values: values.Only(answers.FamilienstandPrefix)}
	f.settle()
	return f
}

// Set records value for field. Selecting a different status clears every
// dependent answer, including the joint filing confirmation.
func (f *Form) Set(field string, value any) {
	if field == answers.Familienstand {
		previous, _ := f.values.String(answers.Familienstand)
		next, _ := answers.New(map[string]any{field: value}).String(field)
		if previous != next {
			f.values = f.values.Without(Fields...)
		}
	}
	f.values = f.values.With(field, value)
	f.settle()
}

// Unset removes field and re-evaluates dependent fields.
func (f *Form) Unset(field string) {
	f.values = f.values.Without(field)
	f.settle()
}

// Values returns the current, consistent values.
func (f *Form) Values() answers.Store {
	return f.values
}

// States returns the field states for the current values.
func (f *Form) States() visibility.States {
	return f.states
}

// settle clears hidden values until the table stops changing. Clearing a value
// can hide further fields, so a single pass is not enough.
func (f *Form) settle() {
	for i := 0; i <= len(Fields); i++ {
		f.states = Evaluate(f.values, f.period)
		cleared := visibility.Clear(f.values, f.states)
		if cleared.Len() == f.values.Len() {
			return
		}
		f.values = cleared
	}
}

// Clean returns values with every hidden marital status answer removed. Keys
// outside the step are kept.
func Clean(values answers.Store, period taxperiod.Period) answers.Store {
	form := NewForm(values, period)
	return values.WithoutPrefix(answers.FamilienstandPrefix).Merge(form.Values())
}
