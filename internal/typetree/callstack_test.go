package typetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apperrors "github.com/field-access-analysis/pkg/errors"
)

func decodeCallsites(t *testing.T, src string) []*CallsiteRecord {
	t.Helper()

	var recs []*CallsiteRecord
	require.NoError(t, yaml.Unmarshal([]byte(src), &recs))
	return recs
}

func TestNewCallstack(t *testing.T) {
	cs, err := NewCallstack(decodeCallsites(t, `
- {function_name: _Znwm, line_offset: 0, column: 0}
- {function_name: main, line_offset: 12, column: 7}
`))
	require.NoError(t, err)

	require.Len(t, cs, 2)
	assert.Equal(t, Callsite{FunctionName: "_Znwm"}, cs[0])
	assert.Equal(t, Callsite{FunctionName: "main", LineOffset: 12, Column: 7}, cs[1])
	assert.Equal(t, "_Znwm:0:0 <- main:12:7", cs.String())
}

func TestNewCallstack_Empty(t *testing.T) {
	cs, err := NewCallstack(nil)
	require.NoError(t, err)
	assert.NotNil(t, cs)
	assert.Empty(t, cs)
}

func TestNewCallstack_MissingKey(t *testing.T) {
	tests := []struct {
		name string
		src  string
		key  string
	}{
		{"function_name", "- {line_offset: 1, column: 2}", "function_name"},
		{"line_offset", "- {function_name: f, column: 2}", "line_offset"},
		{"column", "- {function_name: f, line_offset: 1}", "column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCallstack(decodeCallsites(t, tt.src))
			require.Error(t, err)
			assert.True(t, apperrors.IsMalformedRecord(err))
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestCallstack_Equal(t *testing.T) {
	a := Callstack{{"f", 1, 2}, {"g", 3, 4}}

	tests := []struct {
		name  string
		other Callstack
		want  bool
	}{
		{"same", Callstack{{"f", 1, 2}, {"g", 3, 4}}, true},
		{"reordered", Callstack{{"g", 3, 4}, {"f", 1, 2}}, false},
		{"prefix", Callstack{{"f", 1, 2}}, false},
		{"column differs", Callstack{{"f", 1, 2}, {"g", 3, 5}}, false},
		{"empty", Callstack{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Equal(tt.other))
			assert.Equal(t, tt.want, tt.other.Equal(a))
		})
	}
}

func TestNewEntry(t *testing.T) {
	var rec EntryRecord
	require.NoError(t, yaml.Unmarshal([]byte(`
type_tree:
  tree:
    - {type: A, size: 4, global_offset: 0, total_access: 3}
callstack:
  - {function_name: f, line_offset: 1, column: 2}
`), &rec))

	entry, err := DefaultPolicy().NewEntry(&rec)
	require.NoError(t, err)
	assert.Equal(t, Callstack{{"f", 1, 2}}, entry.Callstack)
	assert.Equal(t, int64(3), entry.Tree.Access())
}

func TestNewEntry_MissingParts(t *testing.T) {
	p := DefaultPolicy()

	_, err := p.NewEntry(nil)
	assert.True(t, apperrors.IsMalformedRecord(err))

	_, err = p.NewEntry(&EntryRecord{Callstack: []*CallsiteRecord{}})
	assert.True(t, apperrors.IsMalformedRecord(err))

	rec := &EntryRecord{TypeTree: &TreeRecord{Tree: []*Record{decodeRecord(t, "{type: A, size: 1, global_offset: 0, total_access: 1}")}}}
	_, err = p.NewEntry(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "callstack")
}
