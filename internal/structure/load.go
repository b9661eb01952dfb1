package structure

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a view tree dump. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func Load(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open structure: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(f)
	default:
		return DecodeJSON(f)
	}
}

// DecodeJSON reads a JSON view tree dump
func DecodeJSON(r io.Reader) (*Structure, error) {
	var s Structure
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode structure: %w", err)
	}
	return &s, nil
}

// DecodeYAML reads a YAML view tree dump
func DecodeYAML(r io.Reader) (*Structure, error) {
	var s Structure
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decode structure: empty document")
		}
		return nil, fmt.Errorf("decode structure: %w", err)
	}
	return &s, nil
}
