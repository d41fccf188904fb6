package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/flow"
	"github.com/goliatone/go-lotse/pkg/lotse"
	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/render"
	"github.com/goliatone/go-lotse/pkg/renderers/vanilla"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

const (
	defaultRendererName = "vanilla"
	tracerName          = "github.com/goliatone/go-lotse/pkg/orchestrator"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithWizard injects a prebuilt wizard, for example one for another tax year.
func WithWizard(wizard *lotse.Wizard) Option {
	return func(o *Orchestrator) {
		o.wizard = wizard
	}
}

// WithModelBuilder injects a custom page builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that runs after the page is built
// and before decorators.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against every page.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithLinks maps step names to URLs for navigation and summary links.
func WithLinks(link func(step string) string) Option {
	return func(o *Orchestrator) {
		if link != nil {
			o.link = link
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for spans. The global provider is
// used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithDebugData seeds every request with lotse.DebugData. Stored answers win
// over the seeded ones.
func WithDebugData(enabled bool) Option {
	return func(o *Orchestrator) {
		o.debugData = enabled
	}
}

// Orchestrator resolves, builds and renders wizard pages and accepts their
// submissions. The zero configuration uses the embedded wizard definition,
// the default builder and the vanilla HTML renderer.
type Orchestrator struct {
	wizard          *lotse.Wizard
	builder         model.Builder
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	decorators      []model.Decorator
	link            func(string) string
	logger          *zap.Logger
	tracer          trace.Tracer
	debugData       bool
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations. Errors
// from those surface on the first call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		link:            model.DefaultAction,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Wizard returns the underlying wizard.
func (o *Orchestrator) Wizard() *lotse.Wizard {
	return o.wizard
}

// Registry returns the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// DebugData reports whether requests are seeded with lotse.DebugData.
func (o *Orchestrator) DebugData() bool {
	return o.debugData
}

// Values returns the answers requests operate on: stored values, on top of
// the debug data when enabled.
func (o *Orchestrator) Values(stored answers.Store) answers.Store {
	if !o.debugData {
		return stored
	}
	return lotse.DebugData().Merge(stored)
}

// Show resolves step for values and builds the page to display. When the
// step is not accessible, the page is the redirect target's and is marked as
// redirected with the reason of the first unmet prerequisite. An unknown step
// returns an error wrapping flow.ErrUnknownStep.
func (o *Orchestrator) Show(ctx context.Context, step string, values answers.Store) (model.Page, flow.Decision, error) {
	ctx, span := o.tracer.Start(ctx, "lotse.show", trace.WithAttributes(attribute.String("lotse.step", step)))
	defer span.End()

	if err := o.ready(ctx); err != nil {
		return model.Page{}, flow.Decision{}, fail(span, err)
	}

	values = o.Values(values)
	decision, err := o.wizard.Resolve(step, values)
	if err != nil {
		return model.Page{}, flow.Decision{}, fail(span, fmt.Errorf("orchestrator: resolve %q: %w", step, err))
	}
	span.SetAttributes(
		attribute.String("lotse.target", decision.Step),
		attribute.Bool("lotse.allowed", decision.Allowed),
	)
	if !decision.Allowed {
		o.logger.Debug("orchestrator: redirect",
			zap.String("requested", decision.Requested),
			zap.String("target", decision.Step),
			zap.String("prerequisite", decision.Prerequisite),
		)
	}

	page, err := o.page(ctx, decision.Step, values)
	if err != nil {
		return model.Page{}, flow.Decision{}, fail(span, err)
	}
	if !decision.Allowed && decision.Requested != flow.StartStep {
		page.Redirected = true
		page.Reason = decision.Reason
	}
	return page, decision, nil
}

// Visibility evaluates the field states of step for in-progress values.
func (o *Orchestrator) Visibility(ctx context.Context, step string, values answers.Store) (visibility.States, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}
	s, err := o.wizard.Step(step)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: visibility: %w", err)
	}
	return fieldStates(s, o.Values(values))
}

// fieldStates evaluates the step's rules. Fields without a rule are shown
// with their declared requirement.
func fieldStates(s flow.Step, values answers.Store) (visibility.States, error) {
	states, err := s.States(values)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: visibility %q: %w", s.Name, err)
	}
	out := make(visibility.States, len(s.Fields))
	for name, state := range states {
		out[name] = state
	}
	for _, field := range s.Fields {
		if _, ok := out[field.Name]; !ok {
			out[field.Name] = visibility.FieldState{Visible: true, Required: field.Required}
		}
	}
	return out, nil
}

// SubmitResult describes the outcome of a submission.
type SubmitResult struct {
	// Decision is the resolution of the submitted step. When it is not
	// allowed nothing was stored and the caller should show Decision.Step.
	Decision flow.Decision
	// Values are the answers after the submission, pruned of everything that
	// became unreachable or hidden.
	Values answers.Store
	// Next is the step to continue with; empty at the end of the wizard.
	Next string
}

// Submit stores input as the answers of step. The submitted step replaces
// all previous answers of its fields, so an unchecked checkbox that is absent
// from input is cleared. Required visible fields without a value fail with an
// *IncompleteError (matching ErrIncomplete) and leave stored untouched.
func (o *Orchestrator) Submit(ctx context.Context, step string, stored, input answers.Store) (SubmitResult, error) {
	ctx, span := o.tracer.Start(ctx, "lotse.submit", trace.WithAttributes(attribute.String("lotse.step", step)))
	defer span.End()

	if err := o.ready(ctx); err != nil {
		return SubmitResult{}, fail(span, err)
	}

	current := o.Values(stored)
	decision, err := o.wizard.Resolve(step, current)
	if err != nil {
		return SubmitResult{}, fail(span, fmt.Errorf("orchestrator: submit %q: %w", step, err))
	}
	if !decision.Allowed {
		return SubmitResult{Decision: decision, Values: stored, Next: decision.Step}, nil
	}

	s, err := o.wizard.Step(step)
	if err != nil {
		return SubmitResult{}, fail(span, err)
	}
	names := s.FieldNames()
	entered := pick(input, names)
	merged := current.Without(names...).Merge(entered)

	states, err := fieldStates(s, merged)
	if err != nil {
		return SubmitResult{}, fail(span, err)
	}
	if missing := missingFields(s, merged, states); len(missing) > 0 {
		return SubmitResult{Decision: decision, Values: stored}, &IncompleteError{Step: step, Fields: missing}
	}

	pruned, err := o.wizard.Prune(merged)
	if err != nil {
		return SubmitResult{}, fail(span, fmt.Errorf("orchestrator: prune: %w", err))
	}
	if dropped := merged.Len() - pruned.Len(); dropped > 0 {
		o.logger.Debug("orchestrator: pruned answers", zap.String("step", step), zap.Int("dropped", dropped))
	}
	// Debug data only steers resolution; it is never stored.
	persisted := retain(stored.Without(names...).Merge(entered), pruned)

	next, ok, err := o.wizard.Next(step, pruned)
	if err != nil {
		return SubmitResult{}, fail(span, err)
	}
	if !ok {
		next = ""
	}
	return SubmitResult{Decision: decision, Values: persisted, Next: next}, nil
}

// Render renders page with the named renderer, or the default one when name
// is empty.
func (o *Orchestrator) Render(ctx context.Context, page model.Page, name string, opts render.RenderOptions) ([]byte, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(name)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, page, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) page(ctx context.Context, name string, values answers.Store) (model.Page, error) {
	s, err := o.wizard.Step(name)
	if err != nil {
		return model.Page{}, err
	}
	states, err := s.States(values)
	if err != nil {
		return model.Page{}, fmt.Errorf("orchestrator: states %q: %w", name, err)
	}
	page, err := o.builder.Build(s, values, states)
	if err != nil {
		return model.Page{}, fmt.Errorf("orchestrator: build page: %w", err)
	}

	nav, err := o.wizard.Nav(name)
	if err != nil {
		return model.Page{}, err
	}
	for _, item := range nav {
		page.Nav = append(page.Nav, model.NavItem{
			Number: item.Number,
			Label:  item.Label,
			Link:   o.link(item.Step),
			Active: item.Active,
		})
	}
	if prev, ok, err := o.wizard.Prev(name, values); err == nil && ok {
		page.PrevLink = o.link(prev)
	}

	if name == lotse.StepSummary {
		overview, err := o.wizard.Overview(values)
		if err != nil {
			return model.Page{}, fmt.Errorf("orchestrator: overview: %w", err)
		}
		page.Summary = o.summary(overview)
	}

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &page); err != nil {
			return model.Page{}, fmt.Errorf("orchestrator: transform page: %w", err)
		}
	}
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&page); err != nil {
			return model.Page{}, fmt.Errorf("orchestrator: decorate page: %w", err)
		}
	}
	return page, nil
}

func (o *Orchestrator) summary(overview []lotse.OverviewSection) []model.SummarySection {
	out := make([]model.SummarySection, 0, len(overview))
	for _, section := range overview {
		summary := model.SummarySection{Label: section.Label, Link: o.link(section.Step)}
		for _, step := range section.Steps {
			entries := make([]model.SummaryEntry, 0, len(step.Entries))
			for _, entry := range step.Entries {
				entries = append(entries, model.SummaryEntry{Label: entry.Label, Value: entry.Value, Missing: entry.Missing})
			}
			summary.Steps = append(summary.Steps, model.SummaryStep{Title: step.Title, Link: o.link(step.Step), Entries: entries})
		}
		out = append(out, summary)
	}
	return out
}

// pick keeps the keys of input named exactly in names.
func pick(input answers.Store, names []string) answers.Store {
	out := make(map[string]any, len(names))
	for _, name := range names {
		if value, ok := input.Lookup(name); ok {
			out[name] = value
		}
	}
	return answers.New(out)
}

// retain drops the keys of values that are absent from view.
func retain(values, view answers.Store) answers.Store {
	var gone []string
	for _, key := range values.Keys() {
		if !view.Present(key) {
			gone = append(gone, key)
		}
	}
	return values.Without(gone...)
}

func missingFields(step flow.Step, values answers.Store, states visibility.States) map[string][]string {
	missing := make(map[string][]string)
	for _, field := range step.Fields {
		state := states[field.Name]
		if !state.Visible || !state.Required {
			continue
		}
		filled := values.Present(field.Name)
		if field.Kind == flow.KindCheckbox {
			filled = values.Checked(field.Name)
		}
		if !filled {
			missing[field.Name] = []string{ValidationRequired}
		}
	}
	return missing
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, ErrNoRenderer
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) applyDefaults() {
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.wizard == nil {
		wizard, err := lotse.New(lotse.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default wizard: %w", err)
			return
		}
		o.wizard = wizard
	}
	if o.builder == nil {
		o.builder = model.NewBuilder(model.WithAction(o.link))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
