package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-lotse/pkg/model"
)

// Transformer mutates a page after it was built and before decorators run.
type Transformer interface {
	Transform(ctx context.Context, page *model.Page) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, page *model.Page) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, page *model.Page) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, page)
}

// JSONPresetTransformer applies copy overrides loaded from a JSON document,
// keyed by step:
//
//	{
//	  "metadata": {"theme": "elster"},
//	  "steps": {
//	    "iban": {"title": "Bankverbindung", "fields": {"iban": {"help": "DE.."}}}
//	  }
//	}
//
// Patches for steps other than the page's step are ignored.
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Metadata map[string]string    `json:"metadata"`
	Steps    map[string]stepPatch `json:"steps"`
}

type stepPatch struct {
	Title  string                `json:"title"`
	Intro  string                `json:"intro"`
	Fields map[string]fieldPatch `json:"fields"`
}

type fieldPatch struct {
	Label       string `json:"label"`
	Help        string `json:"help"`
	Placeholder string `json:"placeholder"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a preset document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches for page.Step.
func (t *JSONPresetTransformer) Transform(ctx context.Context, page *model.Page) error {
	if page == nil {
		return errors.New("json preset transformer: page is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(t.document.Metadata) > 0 {
		page.Metadata = mergeStringMap(page.Metadata, t.document.Metadata)
	}

	patch, ok := t.document.Steps[page.Step]
	if !ok {
		return nil
	}
	if patch.Title != "" {
		page.Title = patch.Title
	}
	if patch.Intro != "" {
		page.Intro = patch.Intro
	}
	for name, fp := range patch.Fields {
		field, ok := page.Field(name)
		if !ok {
			return fmt.Errorf("json preset transformer: step %q has no field %q", page.Step, name)
		}
		applyFieldPatch(field, fp)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Help != "" {
		field.Help = patch.Help
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
