// Package jsonview renders wizard pages as JSON for script clients and
// single page frontends.
package jsonview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/render"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty prints the output with indent.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer renders pages as JSON documents.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Document is the JSON payload.
type Document struct {
	Page   model.Page           `json:"page"`
	Hidden []render.HiddenField `json:"hidden,omitempty"`
}

// Render encodes page after applying options.
func (r *Renderer) Render(ctx context.Context, page model.Page, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := Document{
		Page:   render.Prepare(page, options),
		Hidden: render.SortedHiddenFields(render.MergeHiddenFields(options.Hidden, render.StepField(page.Step))),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("jsonview: encode page: %w", err)
	}
	return buf.Bytes(), nil
}
