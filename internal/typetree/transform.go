package typetree

import (
	"io"
)

// FlatTree is the leaves of one tree in depth-first order. It refers to
// the tree's nodes and is only valid while the tree is left unchanged.
type FlatTree []*Node

// Flatten collects the leaves under root, left to right.
func Flatten(root *Node) FlatTree {
	leaves := make(FlatTree, 0)
	if root != nil {
		leaves = collectLeaves(root, leaves)
	}
	return leaves
}

func collectLeaves(n *Node, leaves FlatTree) FlatTree {
	if n.IsLeaf() {
		return append(leaves, n)
	}
	for _, c := range n.Children {
		leaves = collectLeaves(c, leaves)
	}
	return leaves
}

// Dump writes every leaf at indentation level 0.
func (f FlatTree) Dump(w io.Writer) error {
	for _, n := range f {
		if err := n.Dump(w, 0); err != nil {
			return err
		}
	}
	return nil
}

// Dearray folds array indices out of every name in the subtree and
// recomputes each internal node's size as the sum of its children.
func Dearray(root *Node) {
	if root == nil {
		return
	}
	root.Name = dearrayName(root.Name)
	root.TypeName = dearrayName(root.TypeName)
	root.FullTypeName = dearrayName(root.FullTypeName)
	if root.IsLeaf() {
		return
	}

	var size int64
	for _, c := range root.Children {
		Dearray(c)
		size += c.Size
	}
	root.Size = size
}
