package typetree

import (
	"fmt"
	"io"

	apperrors "github.com/field-access-analysis/pkg/errors"
)

// NoContainer is how captures spell an absent container.
const NoContainer = "<none>"

// TreeRecord is the raw type_tree payload of one entry.
type TreeRecord struct {
	Container string    `yaml:"container,omitempty"`
	Tree      []*Record `yaml:"tree"`
}

// EntryRecord is the raw payload of one captured entry.
type EntryRecord struct {
	TypeTree  *TreeRecord       `yaml:"type_tree"`
	Callstack []*CallsiteRecord `yaml:"callstack"`
}

// TypeTree is the access tree of one captured object.
type TypeTree struct {
	// Container names the enclosing container type, if the profiler saw one.
	Container string
	Root      *Node
}

// Entry pairs a tree with the callstack that allocated its object.
type Entry struct {
	Callstack Callstack
	Tree      *TypeTree
}

// Access returns the root access count, or 0 for an empty tree.
func (t *TypeTree) Access() int64 {
	if t == nil || t.Root == nil {
		return 0
	}
	return t.Root.Access
}

// Dump writes the container line, when present, and the indented tree.
func (t *TypeTree) Dump(w io.Writer) error {
	if t.Container != "" {
		if _, err := fmt.Fprintf(w, "container: %s\n", t.Container); err != nil {
			return err
		}
	}
	if t.Root == nil {
		return nil
	}
	return t.Root.Dump(w, 0)
}

// NewTypeTree builds a tree from the first element of rec.Tree.
func (p Policy) NewTypeTree(rec *TreeRecord) (*TypeTree, error) {
	if rec == nil {
		return nil, missingKey("entry", "type_tree")
	}
	if len(rec.Tree) == 0 {
		return nil, apperrors.New(apperrors.CodeMalformedRecord, "type_tree: tree has no root")
	}

	root, err := p.NewNode(rec.Tree[0])
	if err != nil {
		return nil, err
	}

	container := rec.Container
	if container == NoContainer {
		container = ""
	}
	return &TypeTree{Container: container, Root: root}, nil
}

// NewEntry builds an entry's tree and callstack.
func (p Policy) NewEntry(rec *EntryRecord) (*Entry, error) {
	if rec == nil {
		return nil, apperrors.New(apperrors.CodeMalformedRecord, "empty entry")
	}
	tree, err := p.NewTypeTree(rec.TypeTree)
	if err != nil {
		return nil, err
	}
	if rec.Callstack == nil {
		return nil, missingKey("entry", "callstack")
	}
	cs, err := NewCallstack(rec.Callstack)
	if err != nil {
		return nil, err
	}
	return &Entry{Callstack: cs, Tree: tree}, nil
}
