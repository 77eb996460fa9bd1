package typetree

import (
	"fmt"
	"io"
)

// Label is the flamegraph frame of n, e.g.
// "(12.3K, 4%, 96B) next:Node*_[h3]".
func (n *Node) Label(totalAccess int64) string {
	return fmt.Sprintf("(%s, %s, %dB) %s:%s_[h%d]",
		FormatCount(n.Access), FormatPercentage(n.Access, totalAccess),
		n.Size, n.Name, n.FullTypeName, n.Hotness)
}

// FlamegraphLines returns one folded stack line per node, pre-order.
// Leaves weigh their size; internal frames weigh 0.
func FlamegraphLines(root *Node, totalAccess int64) []string {
	lines := make([]string, 0)
	_ = walkFolded(root, "", totalAccess, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	return lines
}

// WriteFlamegraph writes the lines of FlamegraphLines to w.
func WriteFlamegraph(w io.Writer, root *Node, totalAccess int64) error {
	return walkFolded(root, "", totalAccess, func(line string) error {
		_, err := io.WriteString(w, line+"\n")
		return err
	})
}

func walkFolded(n *Node, prefix string, totalAccess int64, emit func(string) error) error {
	if n == nil {
		return nil
	}

	stack := prefix + n.Label(totalAccess)
	var weight int64
	if n.IsLeaf() {
		weight = n.Size
	}
	if err := emit(fmt.Sprintf("%s %d", stack, weight)); err != nil {
		return err
	}

	childPrefix := stack + ";"
	for _, c := range n.Children {
		if err := walkFolded(c, childPrefix, totalAccess, emit); err != nil {
			return err
		}
	}
	return nil
}
