package template

import (
	"io"
)

// TemplateRenderer is the seam HTML renderers rely on. Implementations load
// named templates, render ad-hoc template strings and expose filters and
// global data to every template.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
