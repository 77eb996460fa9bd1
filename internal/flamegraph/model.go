// Package flamegraph renders analyzed type trees as flame graphs, either
// as folded stack lines for flamegraph.pl or as a nested JSON tree.
package flamegraph

// Node is one frame of a JSON flame graph. Value is inclusive: a frame
// weighs its own bytes plus those of its descendants.
type Node struct {
	Name     string  `json:"name"`
	Value    int64   `json:"value"`
	Access   int64   `json:"access"`
	Hotness  int     `json:"hotness"`
	Problem  bool    `json:"problem,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// FlameGraph is the JSON form of a whole run. Root is a synthetic frame
// whose children are the selected trees, hottest first.
type FlameGraph struct {
	Root        *Node     `json:"root"`
	TotalAccess int64     `json:"total_access"`
	Buckets     []float64 `json:"buckets"`
}

// RootName names the synthetic root frame.
const RootName = "all"

// IsLeaf reports whether the frame has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// CountFrames returns the number of frames under n, including n.
func (n *Node) CountFrames() int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += c.CountFrames()
	}
	return count
}
