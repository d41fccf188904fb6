// Package lotse wires the concrete Lotse tax wizard: the embedded step
// definition, the Go predicates it references, the derived facts exposed to
// rules and the navigation helpers the renderers need.
package lotse

import (
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/familienstand"
	"github.com/goliatone/go-lotse/pkg/flow"
	"github.com/goliatone/go-lotse/pkg/taxperiod"
)

// Step names.
const (
	StepDeclIncomes          = "decl_incomes"
	StepDeclEdaten           = "decl_edaten"
	StepSessionNote          = "session_note"
	StepFamilienstand        = "familienstand"
	StepSteuernummer         = "steuernummer"
	StepPersonA              = "person_a"
	StepPersonB              = "person_b"
	StepIban                 = "iban"
	StepSteuerminderungYesNo = "steuerminderung_yesno"
	StepVorsorge             = "vorsorge"
	StepAussergBela          = "ausserg_bela"
	StepHaushaltsnahe        = "haushaltsnahe"
	StepHandwerker           = "handwerker"
	StepGemHaushalt          = "gem_haushalt"
	StepReligion             = "religion"
	StepSpenden              = "spenden"
	StepSummary              = "summary"
	StepConfirmation         = "confirmation"
	StepFiling               = "filing"
	StepAck                  = "ack"
)

// DeductionSteps lists the steps gated by the deduction opt-in.
var DeductionSteps = []string{
	StepVorsorge,
	StepAussergBela,
	StepHaushaltsnahe,
	StepHandwerker,
	StepGemHaushalt,
	StepReligion,
	StepSpenden,
}

// Names of the derived facts rules can read under `extras.`.
const (
	ExtraJointFiling = "joint_filing"
	ExtraCutoff      = "cutoff"
	ExtraTaxYear     = "tax_year"
)

// Names of the Go predicates the definition references.
const (
	PredicateJointFiling              = "joint_filing"
	PredicateHouseholdServicesEntered = "household_services_entered"
)

// RulesFamilienstand names the decision table of the marital status step.
const RulesFamilienstand = "familienstand"

// Option customises the wizard.
type Option func(*config)

type config struct {
	period      taxperiod.Period
	logger      *zap.Logger
	definitions fs.FS
}

// WithPeriod sets the tax year the wizard collects answers for.
func WithPeriod(period taxperiod.Period) Option {
	return func(cfg *config) {
		cfg.period = period
	}
}

// WithLogger routes resolution diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDefinitions replaces the embedded step definition.
func WithDefinitions(fsys fs.FS) Option {
	return func(cfg *config) {
		if fsys != nil {
			cfg.definitions = fsys
		}
	}
}

// Wizard is the Lotse step graph bound to a tax period.
type Wizard struct {
	*flow.Graph
	period taxperiod.Period
	logger *zap.Logger
}

// New loads the wizard definition and validates the resulting graph.
func New(options ...Option) (*Wizard, error) {
	cfg := &config{
		period:      taxperiod.Default(),
		logger:      zap.NewNop(),
		definitions: EmbeddedFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	period := cfg.period
	extras := func(values answers.Store) map[string]any {
		return Extras(values, period)
	}

	graph, err := flow.LoadFS(cfg.definitions,
		flow.WithPredicate(PredicateJointFiling, JointFiling(period)),
		flow.WithPredicate(PredicateHouseholdServicesEntered, flow.NonZeroAmount(
			answers.StmindHaushaltsnaheSumme,
			answers.StmindHandwerkerSumme,
		)),
		flow.WithNamedRules(RulesFamilienstand, familienstand.Rules(period)),
		flow.WithLoadExtras(extras),
		flow.WithGraphOptions(flow.WithLogger(cfg.logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("lotse: load definition: %w", err)
	}

	cfg.logger.Debug("lotse: wizard loaded",
		zap.Int("steps", graph.Len()),
		zap.Int("tax_year", period.Year),
	)
	return &Wizard{Graph: graph, period: period, logger: cfg.logger}, nil
}

// MustNew is like New but panics on error.
func MustNew(options ...Option) *Wizard {
	w, err := New(options...)
	if err != nil {
		panic(err)
	}
	return w
}

// Period returns the tax period the wizard was built for.
func (w *Wizard) Period() taxperiod.Period {
	return w.period
}

// JointFiling holds when the answers allow joint assessment and therefore
// the person B step.
func JointFiling(period taxperiod.Period) flow.Predicate {
	return flow.PredicateFunc(func(values answers.Store) bool {
		return familienstand.Eligible(values, period)
	})
}

// Extras derives the facts rules read under the `extras.` prefix.
func Extras(values answers.Store, period taxperiod.Period) map[string]any {
	return map[string]any{
		ExtraJointFiling: familienstand.Eligible(values, period),
		ExtraCutoff:      answers.FormatDate(period.FirstDay()),
		ExtraTaxYear:     period.Year,
	}
}
