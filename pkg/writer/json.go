// Package writer encodes command output and publishes it once a command
// has succeeded, so a failed batch never leaves partial output behind.
package writer

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Encoder writes a value to w in some serialization.
type Encoder[T any] interface {
	Write(data T, w io.Writer) error
}

// JSONWriter writes data as JSON.
type JSONWriter[T any] struct {
	// Indent specifies the indentation for pretty printing.
	// Empty string means compact output.
	Indent string
}

// NewJSONWriter creates a new JSON writer with compact output.
func NewJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{}
}

// NewPrettyJSONWriter creates a JSON writer with pretty printing.
func NewPrettyJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Indent: "  "}
}

// Write writes the data as JSON to the writer.
func (w *JSONWriter[T]) Write(data T, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	if w.Indent != "" {
		encoder.SetIndent("", w.Indent)
	}
	return encoder.Encode(data)
}

// YAMLWriter writes data as block-style YAML, the layout the capture
// tools produce.
type YAMLWriter[T any] struct {
	Indent int
}

// NewYAMLWriter creates a YAML writer with two-space indentation.
func NewYAMLWriter[T any]() *YAMLWriter[T] {
	return &YAMLWriter[T]{Indent: 2}
}

// Write writes the data as YAML to the writer.
func (w *YAMLWriter[T]) Write(data T, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	if w.Indent > 0 {
		encoder.SetIndent(w.Indent)
	}
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}
