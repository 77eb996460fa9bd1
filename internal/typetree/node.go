// Package typetree models the type-access trees recorded by the memory
// access profiler and the transforms run over them before rendering.
package typetree

import (
	"fmt"
	"io"
	"strings"

	apperrors "github.com/field-access-analysis/pkg/errors"
)

// PaddingName is the display name of a region the record leaves unnamed.
const PaddingName = "padding"

// Record is the raw form of one tree node as found under type_tree.tree.
type Record struct {
	Type         *string   `yaml:"type"`
	Name         *string   `yaml:"name,omitempty"`
	Size         *int64    `yaml:"size"`
	GlobalOffset *int64    `yaml:"global_offset"`
	TotalAccess  *int64    `yaml:"total_access"`
	Multiplicity *int64    `yaml:"multiplicity,omitempty"`
	Children     []*Record `yaml:"children,omitempty"`
}

// Node is one memory region of a profiled object: the object itself,
// a field, a base, or a group of array elements.
type Node struct {
	FullTypeName string
	TypeName     string
	Name         string
	Size         int64
	Offset       int64
	Access       int64
	Multiplicity int64
	Hotness      int
	// Problem marks a node whose record reported a negative size.
	Problem  bool
	Children []*Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// NewNode builds a node and its subtree under the default policy.
func NewNode(rec *Record) (*Node, error) {
	return DefaultPolicy().NewNode(rec)
}

// NewNode builds a node and its subtree from rec. A missing required key
// anywhere in the subtree fails the whole build.
func (p Policy) NewNode(rec *Record) (*Node, error) {
	return p.newNode(rec, "tree[0]")
}

func (p Policy) newNode(rec *Record, path string) (*Node, error) {
	switch {
	case rec == nil:
		return nil, apperrors.Newf(apperrors.CodeMalformedRecord, "%s: empty node", path)
	case rec.Type == nil:
		return nil, missingKey(path, "type")
	case rec.Size == nil:
		return nil, missingKey(path, "size")
	case rec.GlobalOffset == nil:
		return nil, missingKey(path, "global_offset")
	case rec.TotalAccess == nil:
		return nil, missingKey(path, "total_access")
	}

	n := &Node{
		FullTypeName: *rec.Type,
		TypeName:     Canonicalize(*rec.Type),
		Name:         PaddingName,
		Size:         *rec.Size,
		Offset:       *rec.GlobalOffset,
		Access:       *rec.TotalAccess,
		Multiplicity: 1,
		Children:     make([]*Node, 0, len(rec.Children)),
	}
	if rec.Name != nil {
		n.Name = Canonicalize(*rec.Name)
	}
	if rec.Multiplicity != nil {
		n.Multiplicity = *rec.Multiplicity
	}
	if n.Size < 0 {
		n.Size = p.ProblemSize
		n.Problem = true
	}

	for i, child := range rec.Children {
		c, err := p.newNode(child, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// CountProblems returns the number of problem nodes in the subtree.
func (n *Node) CountProblems() int {
	count := 0
	if n.Problem {
		count++
	}
	for _, c := range n.Children {
		count += c.CountProblems()
	}
	return count
}

// Dump writes the subtree as indented "type name size access" lines.
func (n *Node) Dump(w io.Writer, level int) error {
	if _, err := fmt.Fprintf(w, "%s%s %s %d %d\n",
		strings.Repeat("  ", level), n.FullTypeName, n.Name, n.Size, n.Access); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.Dump(w, level+1); err != nil {
			return err
		}
	}
	return nil
}
