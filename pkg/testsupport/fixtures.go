// Package testsupport holds helpers shared by package tests: answer fixtures,
// golden files and template output capture.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lotse/pkg/answers"
)

// LoadAnswers reads a YAML or JSON answers fixture.
func LoadAnswers(t *testing.T, path string) answers.Store {
	t.Helper()

	values, err := LoadAnswersFromPath(path)
	if err != nil {
		t.Fatalf("load answers: %v", err)
	}
	return values
}

// LoadAnswersFromPath returns an answers fixture without requiring testing.T
// so setup code outside a test can share fixtures.
func LoadAnswersFromPath(path string) (answers.Store, error) {
	if path == "" {
		return answers.Store{}, errors.New("testsupport: answers path is required")
	}
	values, err := answers.LoadFile(path)
	if err != nil {
		return answers.Store{}, fmt.Errorf("testsupport: load answers: %w", err)
	}
	return values, nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, payload)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs a render function that also writes to an
// io.Writer and returns both the result and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
