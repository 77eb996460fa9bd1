package flamegraph

import (
	"io"

	"github.com/field-access-analysis/internal/analyzer"
	"github.com/field-access-analysis/internal/typetree"
	apperrors "github.com/field-access-analysis/pkg/errors"
	"github.com/field-access-analysis/pkg/writer"
)

// Output formats.
const (
	FormatFolded = "folded"
	FormatJSON   = "json"
)

// JSONWriter writes a flame graph as JSON.
type JSONWriter = writer.JSONWriter[*FlameGraph]

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter() *JSONWriter {
	return writer.NewJSONWriter[*FlameGraph]()
}

// NewPrettyJSONWriter creates a JSON writer with pretty printing.
func NewPrettyJSONWriter() *JSONWriter {
	return writer.NewPrettyJSONWriter[*FlameGraph]()
}

// FoldedWriter writes every selected tree as folded stack lines, one
// line per frame. The output feeds flamegraph.pl unchanged.
type FoldedWriter struct{}

// NewFoldedWriter creates a new folded format writer.
func NewFoldedWriter() *FoldedWriter {
	return &FoldedWriter{}
}

// Write writes the folded lines of result to w.
func (fw *FoldedWriter) Write(result *analyzer.Result, w io.Writer) error {
	for _, e := range result.Selected {
		if err := typetree.WriteFlamegraph(w, e.Tree.Root, result.TotalAccess); err != nil {
			return err
		}
	}
	return nil
}

// ResultWriter encodes an analyzed result in one of the output formats.
type ResultWriter struct {
	format string
	json   *JSONWriter
	folded *FoldedWriter
}

// NewResultWriter returns a writer for format.
func NewResultWriter(format string) (*ResultWriter, error) {
	switch format {
	case "", FormatFolded:
		return &ResultWriter{format: FormatFolded, folded: NewFoldedWriter()}, nil
	case FormatJSON:
		return &ResultWriter{format: FormatJSON, json: NewPrettyJSONWriter()}, nil
	default:
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "unsupported flamegraph format: %s", format)
	}
}

// Format returns the format the writer produces.
func (rw *ResultWriter) Format() string {
	return rw.format
}

// Write implements writer.Encoder.
func (rw *ResultWriter) Write(result *analyzer.Result, w io.Writer) error {
	if rw.format == FormatJSON {
		return rw.json.Write(Generate(result), w)
	}
	return rw.folded.Write(result, w)
}
