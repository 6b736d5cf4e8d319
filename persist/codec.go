package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a value-mapping serialization format.
type Format int

const (
	// FormatJSON encodes values as JSON.
	FormatJSON Format = iota

	// FormatTOML encodes values as TOML.
	FormatTOML

	// FormatYAML encodes values as YAML.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// DetectFormat chooses a format from a file extension. Unknown extensions
// default to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode renders a nested value mapping in the given format.
func Encode(format Format, values map[string]any) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(values); err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("encoding toml: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}
}

// Decode parses a nested value mapping in the given format.
func Decode(format Format, data []byte) (map[string]any, error) {
	var values map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, &ParseError{Format: format, Message: err.Error(), Err: err}
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &values); err != nil {
			return nil, &ParseError{Format: format, Message: err.Error(), Err: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, &ParseError{Format: format, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}
	return values, nil
}

// ParseError represents an error while parsing a values file.
type ParseError struct {
	// Path is the file path that failed to parse, if known.
	Path string
	// Format is the serialization format.
	Format Format
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error in %s (%s): %s", e.Path, e.Format, e.Message)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Format, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
