package typetree

import (
	"fmt"
	"strings"

	apperrors "github.com/field-access-analysis/pkg/errors"
)

// Callsite is one frame of the allocation callstack.
type Callsite struct {
	FunctionName string `yaml:"function_name"`
	LineOffset   int64  `yaml:"line_offset"`
	Column       int64  `yaml:"column"`
}

// String renders the frame as "function:line:column".
func (c Callsite) String() string {
	return fmt.Sprintf("%s:%d:%d", c.FunctionName, c.LineOffset, c.Column)
}

// Callstack is an ordered list of frames, innermost first as captured.
type Callstack []Callsite

// Equal reports whether both stacks hold the same frames in the same order.
func (cs Callstack) Equal(other Callstack) bool {
	if len(cs) != len(other) {
		return false
	}
	for i := range cs {
		if cs[i] != other[i] {
			return false
		}
	}
	return true
}

// String joins the frames with " <- ".
func (cs Callstack) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " <- ")
}

// CallsiteRecord is the raw form of a callsite. Pointer fields tell a
// missing key apart from a zero value.
type CallsiteRecord struct {
	FunctionName *string `yaml:"function_name"`
	LineOffset   *int64  `yaml:"line_offset"`
	Column       *int64  `yaml:"column"`
}

// NewCallstack validates raw frames and returns a freshly allocated stack.
func NewCallstack(recs []*CallsiteRecord) (Callstack, error) {
	cs := make(Callstack, 0, len(recs))
	for i, rec := range recs {
		path := fmt.Sprintf("callstack[%d]", i)
		switch {
		case rec == nil:
			return nil, apperrors.Newf(apperrors.CodeMalformedRecord, "%s: empty callsite", path)
		case rec.FunctionName == nil:
			return nil, missingKey(path, "function_name")
		case rec.LineOffset == nil:
			return nil, missingKey(path, "line_offset")
		case rec.Column == nil:
			return nil, missingKey(path, "column")
		}
		cs = append(cs, Callsite{
			FunctionName: *rec.FunctionName,
			LineOffset:   *rec.LineOffset,
			Column:       *rec.Column,
		})
	}
	return cs, nil
}

func missingKey(path, key string) error {
	return apperrors.Newf(apperrors.CodeMalformedRecord, "%s: missing required key %q", path, key)
}
