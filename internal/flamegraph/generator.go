package flamegraph

import (
	"github.com/field-access-analysis/internal/analyzer"
	"github.com/field-access-analysis/internal/typetree"
)

// Generate builds the JSON flame graph of result. Frame names are the
// same labels the folded format uses.
func Generate(result *analyzer.Result) *FlameGraph {
	root := &Node{Name: RootName, Children: make([]*Node, 0, len(result.Selected))}
	for _, e := range result.Selected {
		child := convert(e.Tree.Root, result.TotalAccess)
		if child == nil {
			continue
		}
		root.Value += child.Value
		root.Access += child.Access
		root.Children = append(root.Children, child)
	}

	buckets := make([]float64, len(result.Buckets))
	copy(buckets, result.Buckets)
	return &FlameGraph{
		Root:        root,
		TotalAccess: result.TotalAccess,
		Buckets:     buckets,
	}
}

func convert(n *typetree.Node, totalAccess int64) *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Name:    n.Label(totalAccess),
		Access:  n.Access,
		Hotness: n.Hotness,
		Problem: n.Problem,
	}
	if n.IsLeaf() {
		out.Value = n.Size
		return out
	}

	out.Children = make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		child := convert(c, totalAccess)
		out.Value += child.Value
		out.Children = append(out.Children, child)
	}
	return out
}
