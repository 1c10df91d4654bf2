package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how the final document is written.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
)

// LoadDocument reads a YAML or JSON file into records and sequences.
// An empty file is an empty record.
func LoadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return parseDocument(data)
}

func parseDocument(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	return normalize(doc), nil
}

// normalize converts the map[any]any mappings yaml produces for non-string keys.
func normalize(v any) any {
	switch c := v.(type) {
	case map[string]any:
		for k, e := range c {
			c[k] = normalize(e)
		}
		return c
	case map[any]any:
		out := make(map[string]any, len(c))
		for k, e := range c {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range c {
			c[i] = normalize(e)
		}
		return c
	}
	return v
}

// WriteDocument writes plain data in the requested format.
func WriteDocument(w io.Writer, doc any, format OutputFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
