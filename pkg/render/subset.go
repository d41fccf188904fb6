package render

import (
	"strings"

	"github.com/goliatone/go-lotse/pkg/model"
)

// FieldSubset restricts the fields a renderer emits. The zero value keeps
// every field.
type FieldSubset struct {
	// Names keeps only the listed fields.
	Names []string
	// Kinds keeps only fields of the listed kinds.
	Kinds []model.FieldKind
	// VisibleOnly drops hidden fields. Terminal and JSON clients use it since
	// they cannot toggle fields client-side.
	VisibleOnly bool
}

// Empty reports whether the subset keeps everything.
func (s FieldSubset) Empty() bool {
	return len(s.Names) == 0 && len(s.Kinds) == 0 && !s.VisibleOnly
}

// ApplySubset removes fields that do not match subset. When subset is empty
// or page is nil, the page is returned unchanged.
func ApplySubset(page *model.Page, subset FieldSubset) {
	if page == nil || subset.Empty() {
		return
	}

	names := normaliseTokens(subset.Names)
	kinds := make(map[model.FieldKind]struct{}, len(subset.Kinds))
	for _, kind := range subset.Kinds {
		kinds[kind] = struct{}{}
	}

	filtered := make([]model.Field, 0, len(page.Fields))
	for _, field := range page.Fields {
		if subset.VisibleOnly && !field.Visible {
			continue
		}
		if len(names) > 0 {
			if _, ok := names[strings.ToLower(field.Name)]; !ok {
				continue
			}
		}
		if len(kinds) > 0 {
			if _, ok := kinds[field.Kind]; !ok {
				continue
			}
		}
		filtered = append(filtered, field)
	}
	page.Fields = filtered
}

func normaliseTokens(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := strings.ToLower(strings.TrimSpace(value)); token != "" {
			out[token] = struct{}{}
		}
	}
	return out
}
