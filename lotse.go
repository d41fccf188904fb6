// Package lotse is the quick-start entry point of the module: it wires the
// wizard, the orchestrator and the built-in renderers so callers can render a
// step for a set of answers with one call.
package lotse

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/flow"
	"github.com/goliatone/go-lotse/pkg/orchestrator"
	"github.com/goliatone/go-lotse/pkg/render"
	"github.com/goliatone/go-lotse/pkg/renderers/jsonview"
	"github.com/goliatone/go-lotse/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides such as prefilled values or
// field errors.
type RenderOptions = render.RenderOptions

// Decision is the outcome of resolving a requested step.
type Decision = flow.Decision

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// DefaultRegistry holds the HTML renderer, used when nothing else matches,
// and the JSON renderer.
func DefaultRegistry() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(jsonview.New())
	if err := registry.SetFallback(html.Name()); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderStep resolves step for values and renders the page to show with the
// named renderer ("vanilla" or "json"). The decision tells callers whether a
// redirect happened.
func RenderStep(ctx context.Context, step string, values answers.Store, rendererName string, options ...orchestrator.Option) ([]byte, Decision, error) {
	registry, err := DefaultRegistry()
	if err != nil {
		return nil, Decision{}, err
	}
	o := orchestrator.New(append([]orchestrator.Option{orchestrator.WithRegistry(registry)}, options...)...)
	page, decision, err := o.Show(ctx, step, values)
	if err != nil {
		return nil, Decision{}, err
	}
	out, err := o.Render(ctx, page, rendererName, RenderOptions{})
	if err != nil {
		return nil, Decision{}, err
	}
	return out, decision, nil
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet and scripts the HTML pages reference.
//
// Typical mount:
//
//	mux.Handle("/lotse/assets/",
//	  http.StripPrefix("/lotse/assets/",
//	    http.FileServerFS(lotse.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
