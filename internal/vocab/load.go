package vocab

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML vocabulary file
func Load(path string) (Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("open vocabulary: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode reads a YAML vocabulary. Unknown keys are rejected so typos in
// hand-edited tables surface instead of silently dropping rules.
func Decode(r io.Reader) (Vocabulary, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var v Vocabulary
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return Vocabulary{}, fmt.Errorf("decode vocabulary: empty document")
		}
		return Vocabulary{}, fmt.Errorf("decode vocabulary: %w", err)
	}
	return v, nil
}

// Encode renders v as YAML
func Encode(v Vocabulary) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode vocabulary: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode vocabulary: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadTable loads and compiles a vocabulary file. An empty path yields the
// built-in table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	v, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Compile(v)
}
