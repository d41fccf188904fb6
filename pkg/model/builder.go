package model

import (
	"github.com/goliatone/go-lotse/internal/model"
	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/flow"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

// Builder converts wizard steps into pages.
type Builder interface {
	Build(step flow.Step, values answers.Store, states visibility.States) (Page, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
	action  func(string) string
}

// WithLabeler overrides the label used for fields that declare none.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithAction overrides how a step name maps to the URL its page posts to.
func WithAction(action func(step string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.action = action
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := model.Options{}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}
	if cfg.action != nil {
		internalOpts.Action = cfg.action
	}

	return model.New(internalOpts)
}
