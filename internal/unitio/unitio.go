// Package unitio reads unit descriptor files.
//
// A descriptor file is a JSON or YAML list of units, or an object whose
// "units" key holds that list:
//
//	units:
//	  - name: retry
//	    isEntryPoint: false
//	    hasLeadingDoc: true
//	    importPath: example.com/project/retry
//
// Descriptors missing a required attribute decode without error; the
// evaluator reports them as structural violations.
package unitio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// Format identifies a descriptor encoding.
type Format string

// Supported formats.
const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for file extensions other than .json, .yaml and .yml.
var ErrUnknownFormat = errors.New("unknown descriptor format")

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// ReadFile decodes the descriptor file at path, choosing the format from its
// extension. A path of "-" reads standard input and sniffs the format.
func ReadFile(path string) ([]lint.Unit, error) {
	if path == "-" {
		return Decode(os.Stdin, FormatAuto)
	}

	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) //nolint:gosec // G304: path is supplied by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptor file: %w", err)
	}
	defer func() { _ = f.Close() }()

	units, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return units, nil
}

// document is the object form of a descriptor file.
type document struct {
	Units []lint.Unit `json:"units" yaml:"units"`
}

// Decode reads every descriptor from r. FormatAuto treats input whose first
// non-space byte is '[' or '{' as JSON and anything else as YAML.
func Decode(r io.Reader, format Format) ([]lint.Unit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptors: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []lint.Unit{}, nil
	}

	if format == FormatAuto {
		format = FormatYAML
		if trimmed[0] == '[' || trimmed[0] == '{' {
			format = FormatJSON
		}
	}

	switch format {
	case FormatJSON:
		return decodeJSON(trimmed)
	case FormatYAML:
		return decodeYAML(trimmed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func decodeJSON(data []byte) ([]lint.Unit, error) {
	if data[0] == '{' {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON descriptors: %w", err)
		}
		return nonNil(doc.Units), nil
	}
	var units []lint.Unit
	if err := json.Unmarshal(data, &units); err != nil {
		return nil, fmt.Errorf("failed to parse JSON descriptors: %w", err)
	}
	return nonNil(units), nil
}

func decodeYAML(data []byte) ([]lint.Unit, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML descriptors: %w", err)
	}
	if len(root.Content) == 0 {
		return []lint.Unit{}, nil
	}

	node := root.Content[0]
	if node.Kind == yaml.MappingNode {
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML descriptors: %w", err)
		}
		return nonNil(doc.Units), nil
	}

	var units []lint.Unit
	if err := node.Decode(&units); err != nil {
		return nil, fmt.Errorf("failed to parse YAML descriptors: %w", err)
	}
	return nonNil(units), nil
}

func nonNil(units []lint.Unit) []lint.Unit {
	if units == nil {
		return []lint.Unit{}
	}
	return units
}
