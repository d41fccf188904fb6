package answers

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load decodes a YAML (or JSON, which is valid YAML) answers document.
func Load(r io.Reader) (Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Store{}, fmt.Errorf("answers: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML or JSON bytes into a store.
func Parse(data []byte) (Store, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return Store{}, fmt.Errorf("answers: parse: %w", err)
	}
	return New(values), nil
}

// LoadFile reads answers from a YAML or JSON file on disk.
func LoadFile(path string) (Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return Store{}, fmt.Errorf("answers: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
