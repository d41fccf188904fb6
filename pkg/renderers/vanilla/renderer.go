// Package vanilla renders wizard pages as server-side HTML with pongo2
// templates. Pages work without JavaScript; the embedded visibility script
// only refreshes which fields are shown while the filer types.
package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/render"
	rendertemplate "github.com/goliatone/go-lotse/pkg/render/template"
	"github.com/goliatone/go-lotse/pkg/render/template/pongo"
	"github.com/goliatone/go-lotse/pkg/renderers/vanilla/components"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	policy           *bluemonday.Policy
	visibilityURL    func(step string) string
	inlineAssets     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry overrides the controls used per field kind.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithSanitizer overrides the policy applied to intro and help texts, which
// may carry markup.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithVisibilityURL sets the endpoint the visibility script posts to. Pass
// nil to render pages without the script.
func WithVisibilityURL(url func(step string) string) Option {
	return func(cfg *config) {
		cfg.visibilityURL = url
	}
}

// WithInlineAssets toggles inlining the stylesheet and scripts into every
// page. It is on by default.
func WithInlineAssets(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineAssets = enabled
	}
}

// DefaultVisibilityURL is the route the HTTP server serves field states on.
func DefaultVisibilityURL(step string) string {
	return "/lotse/visibility/" + step
}

// Renderer renders pages as HTML.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	components    *components.Registry
	policy        *bluemonday.Policy
	visibilityURL func(string) string
	inlineAssets  bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:    TemplatesFS(),
		visibilityURL: DefaultVisibilityURL,
		inlineAssets:  true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:     templates,
		components:    cfg.components,
		policy:        cfg.policy,
		visibilityURL: cfg.visibilityURL,
		inlineAssets:  cfg.inlineAssets,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces a complete HTML document for page.
func (r *Renderer) Render(ctx context.Context, page model.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page = render.Prepare(page, options)

	used := make([]string, 0, len(page.Fields))
	fields := make([]string, 0, len(page.Fields))
	for _, field := range page.Fields {
		markup, component, err := r.renderField(field)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		used = append(used, component)
		fields = append(fields, markup)
	}

	hidden := render.MergeHiddenFields(options.Hidden, render.StepField(page.Step))
	data := map[string]any{
		"page":    page,
		"intro":   r.policy.Sanitize(page.Intro),
		"fields":  fields,
		"hidden":  render.SortedHiddenFields(hidden),
		"classes": chromeClasses(),
	}
	if r.visibilityURL != nil {
		data["visibility_url"] = r.visibilityURL(page.Step)
	}
	if r.inlineAssets {
		data["stylesheet"] = readAsset(StylesheetName)
		data["scripts"] = r.scripts(used)
	}
	for name, fn := range render.TemplateI18nFuncs(options.Translator, render.TemplateI18nConfig{OnMissing: buttonFallback(options.OnMissing)}) {
		data[name] = fn
	}

	result, err := r.templates.RenderTemplate("templates/page.tpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderField(field model.Field) (string, string, error) {
	name := components.NameFor(field.Kind)
	descriptor, ok := r.components.Descriptor(name)
	if !ok {
		return "", "", fmt.Errorf("component %q not registered for field %q", name, field.Name)
	}

	id := controlID(field.Name)
	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, components.ComponentData{Template: r.templates, ID: id}); err != nil {
		return "", "", fmt.Errorf("render component %q for field %q: %w", name, field.Name, err)
	}

	mode := "label"
	switch {
	case name == components.NameCheckbox:
		mode = "inline"
	case !labelSupportsFor(name):
		mode = "legend"
	}

	markup, err := r.templates.RenderTemplate("templates/field.tpl", map[string]any{
		"field":   field,
		"id":      id,
		"mode":    mode,
		"control": control.String(),
		"help":    r.policy.Sanitize(field.Help),
		"classes": chromeClasses(),
	})
	if err != nil {
		return "", "", fmt.Errorf("render field %q: %w", field.Name, err)
	}
	return markup, name, nil
}

func (r *Renderer) scripts(used []string) []string {
	names := r.components.Scripts(used)
	if r.visibilityURL != nil {
		names = append(names, VisibilityScript)
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if script := readAsset(name); script != "" {
			out = append(out, script)
		}
	}
	return out
}

var buttonDefaults = map[string]string{
	"form.lotse.button.back": "Zurück",
	"form.lotse.button.next": "Weiter",
}

// buttonFallback keeps the buttons labelled when no catalog is configured.
func buttonFallback(next render.MissingTranslationHandler) render.MissingTranslationHandler {
	return func(locale, key string, params []any, err error) string {
		if label, ok := buttonDefaults[key]; ok {
			return label
		}
		if next != nil {
			return next(locale, key, params, err)
		}
		return key
	}
}
