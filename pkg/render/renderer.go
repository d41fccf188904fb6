package render

import (
	"context"

	"github.com/goliatone/go-lotse/pkg/model"
)

// Renderer converts a wizard page into a byte representation (HTML, JSON,
// terminal prompts).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page model.Page, options RenderOptions) ([]byte, error)
}
