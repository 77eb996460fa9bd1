// Package pprofexport converts analyzed type trees into a pprof profile,
// so that field access can be explored with `go tool pprof`.
//
// Every leaf becomes one sample. Its stack runs from the leaf up through
// its enclosing types to the root, then continues through the allocation
// callstack, innermost frame first.
package pprofexport

import (
	"io"
	"strconv"

	"github.com/google/pprof/profile"

	"github.com/field-access-analysis/internal/typetree"
	apperrors "github.com/field-access-analysis/pkg/errors"
)

// Sample value types, in sample value order.
var sampleTypes = []*profile.ValueType{
	{Type: "access", Unit: "count"},
	{Type: "space", Unit: "bytes"},
}

// Label keys attached to every sample.
const (
	LabelType         = "type"
	LabelHotness      = "hotness"
	LabelMultiplicity = "multiplicity"
)

type converter struct {
	functions      map[string]*profile.Function
	funcList       []*profile.Function
	locations      map[string]*profile.Location
	locList        []*profile.Location
	nextFunctionID uint64
	nextLocationID uint64
	samples        []*profile.Sample
}

func newConverter() *converter {
	return &converter{
		functions:      make(map[string]*profile.Function),
		funcList:       make([]*profile.Function, 0),
		locations:      make(map[string]*profile.Location),
		locList:        make([]*profile.Location, 0),
		nextFunctionID: 1,
		nextLocationID: 1,
		samples:        make([]*profile.Sample, 0),
	}
}

func (c *converter) getFunction(name string) *profile.Function {
	f, ok := c.functions[name]
	if !ok {
		f = &profile.Function{
			ID:         c.nextFunctionID,
			Name:       name,
			SystemName: name,
		}
		c.functions[name] = f
		c.funcList = append(c.funcList, f)
		c.nextFunctionID++
	}
	return f
}

func (c *converter) getLocation(key, name string, line int64) *profile.Location {
	loc, ok := c.locations[key]
	if !ok {
		loc = &profile.Location{
			ID:   c.nextLocationID,
			Line: []profile.Line{{Function: c.getFunction(name), Line: line}},
		}
		c.locations[key] = loc
		c.locList = append(c.locList, loc)
		c.nextLocationID++
	}
	return loc
}

// typeLocation is the frame of a tree node. Frames merge across entries
// by field name and type.
func (c *converter) typeLocation(n *typetree.Node) *profile.Location {
	name := n.Name + ":" + n.FullTypeName
	return c.getLocation("t\x00"+name, name, 0)
}

func (c *converter) callsiteLocation(cs typetree.Callsite) *profile.Location {
	return c.getLocation("c\x00"+cs.String(), cs.FunctionName, cs.LineOffset)
}

func (c *converter) addEntry(e *typetree.Entry) {
	if e.Tree.Root == nil {
		return
	}
	callers := make([]*profile.Location, len(e.Callstack))
	for i, cs := range e.Callstack {
		callers[i] = c.callsiteLocation(cs)
	}
	c.addNode(e.Tree.Root, make([]*profile.Location, 0), callers)
}

// addNode walks the tree keeping path as the root-first chain of frames
// above n.
func (c *converter) addNode(n *typetree.Node, path, callers []*profile.Location) {
	path = append(path, c.typeLocation(n))
	if !n.IsLeaf() {
		for _, child := range n.Children {
			c.addNode(child, path, callers)
		}
		return
	}

	stack := make([]*profile.Location, 0, len(path)+len(callers))
	for i := len(path) - 1; i >= 0; i-- {
		stack = append(stack, path[i])
	}
	stack = append(stack, callers...)

	c.samples = append(c.samples, &profile.Sample{
		Location: stack,
		Value:    []int64{n.Access, n.Size},
		Label: map[string][]string{
			LabelType:         {n.TypeName},
			LabelHotness:      {strconv.Itoa(n.Hotness)},
			LabelMultiplicity: {strconv.FormatInt(n.Multiplicity, 10)},
		},
	})
}

// Convert builds a profile from entries. Entries keep their order;
// trees are not modified.
func Convert(entries []*typetree.Entry) (*profile.Profile, error) {
	c := newConverter()
	for _, e := range entries {
		c.addEntry(e)
	}

	p := &profile.Profile{
		SampleType:        sampleTypes,
		DefaultSampleType: sampleTypes[0].Type,
		Sample:            c.samples,
		Location:          c.locList,
		Function:          c.funcList,
	}
	if err := p.CheckValid(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRenderError, "invalid profile", err)
	}
	return p, nil
}

// Writer encodes entries as a pprof protobuf.
type Writer struct {
	// Raw skips the gzip layer, for destinations that compress on their
	// own.
	Raw bool
}

// NewWriter creates a writer producing gzipped profiles.
func NewWriter() *Writer {
	return &Writer{}
}

// Write implements writer.Encoder.
func (pw *Writer) Write(entries []*typetree.Entry, w io.Writer) error {
	p, err := Convert(entries)
	if err != nil {
		return err
	}
	if pw.Raw {
		return p.WriteUncompressed(w)
	}
	return p.Write(w)
}
