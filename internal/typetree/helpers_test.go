package typetree

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// buildTree decodes a type_tree payload and builds it with the default policy.
func buildTree(t *testing.T, src string) *TypeTree {
	t.Helper()

	var rec TreeRecord
	require.NoError(t, yaml.Unmarshal([]byte(src), &rec))
	tree, err := DefaultPolicy().NewTypeTree(&rec)
	require.NoError(t, err)
	return tree
}

func decodeRecord(t *testing.T, src string) *Record {
	t.Helper()

	var rec Record
	require.NoError(t, yaml.Unmarshal([]byte(src), &rec))
	return &rec
}

func leaf(name string, access, size int64) *Node {
	return &Node{
		FullTypeName: "int",
		TypeName:     "int",
		Name:         name,
		Size:         size,
		Access:       access,
		Multiplicity: 1,
		Children:     make([]*Node, 0),
	}
}

func walk(n *Node, visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		walk(c, visit)
	}
}

// nested is an object with a base, an array of structs and a padding gap.
const nested = `
container: std::vector<Widget>
tree:
  - type: ns::Widget
    size: 0
    global_offset: 0
    total_access: 1500
    children:
      - type: ns::Base<int>
        name: ns::Base
        size: 8
        global_offset: 0
        total_access: 300
        children:
          - type: long
            name: id_
            size: 8
            global_offset: 0
            total_access: 300
      - type: ns::Slot[2]
        name: slots_
        size: 999
        global_offset: 8
        total_access: 1200
        multiplicity: 2
        children:
          - type: ns::Slot
            name: slots_[0]
            size: 16
            global_offset: 8
            total_access: 1000
          - type: ns::Slot
            name: slots_[1]
            size: 16
            global_offset: 24
            total_access: 200
      - type: char[4]
        size: 4
        global_offset: 40
        total_access: 0
`
