package loader

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/field-access-analysis/internal/mock"
	"github.com/field-access-analysis/internal/storage"
	"github.com/field-access-analysis/internal/testutil"
	"github.com/field-access-analysis/pkg/compression"
	apperrors "github.com/field-access-analysis/pkg/errors"
	"github.com/field-access-analysis/pkg/utils"
)

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	testutil.CopyFixture(t, dir, testutil.CaptureFixture)

	var logs bytes.Buffer
	l := New(storage.NewLocalStorage(dir), &Options{
		Policy: DefaultOptions().Policy,
		Logger: utils.NewDefaultLogger(utils.LevelDebug, &logs),
	})

	entries, err := l.Load(context.Background(), testutil.CaptureFixture)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	first := entries[0]
	assert.Equal(t, "", first.Tree.Container)
	assert.Equal(t, int64(1200), first.Tree.Access())
	assert.Len(t, first.Tree.Root.Children, 4)
	require.Len(t, first.Callstack, 2)
	assert.Equal(t, "_Znwm", first.Callstack[0].FunctionName)
	assert.Equal(t, int64(14), first.Callstack[1].LineOffset)

	second := entries[1]
	assert.Equal(t, "std::vector<Slot>", second.Tree.Container)
	assert.Equal(t, "[0]", second.Tree.Root.Children[0].Name)
	assert.Equal(t, int64(3), second.Tree.Root.Multiplicity)

	third := entries[2]
	assert.True(t, third.Tree.Root.Problem)
	assert.Equal(t, int64(10), third.Tree.Root.Size)

	assert.Contains(t, logs.String(), "Loaded 3 entries")
	assert.Contains(t, logs.String(), "[WARN] entry=2 1 node(s) report a negative size")
}

func TestLoader_LoadMalformed(t *testing.T) {
	dir := t.TempDir()
	testutil.CopyFixture(t, dir, testutil.MalformedCaptureFixture)

	entries, err := New(storage.NewLocalStorage(dir), nil).Load(context.Background(), testutil.MalformedCaptureFixture)
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.True(t, apperrors.IsMalformedRecord(err))
	assert.Contains(t, err.Error(), `entry 1`)
	assert.Contains(t, err.Error(), `"global_offset"`)
}

func TestLoader_LoadCompressed(t *testing.T) {
	raw := testutil.LoadFixture(t, testutil.CaptureFixture)

	for _, typ := range []compression.Type{compression.TypeGzip, compression.TypeZstd} {
		t.Run(typ.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := compression.NewWriter(&buf, typ)
			require.NoError(t, err)
			_, err = w.Write(raw)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			dir := t.TempDir()
			testutil.WriteFile(t, dir, "capture.yaml."+typ.String(), buf.String())

			entries, err := New(storage.NewLocalStorage(dir), nil).Load(context.Background(), "capture.yaml."+typ.String())
			require.NoError(t, err)
			assert.Len(t, entries, 3)
		})
	}
}

func TestLoader_LoadFromMockStorage(t *testing.T) {
	store := &mock.MockStorage{}
	store.ExpectOpen("caps/one.yaml", `
- Entry:
    type_tree:
      tree:
        - {type: A, size: 4, global_offset: 0, total_access: 9}
    callstack: []
`)
	store.On("URL", "caps/one.yaml").Return("cos://bucket/caps/one.yaml")
	store.ExpectOpenError("caps/missing.yaml", apperrors.ErrNotFound)

	l := New(store, nil)

	entries, err := l.Load(context.Background(), "caps/one.yaml")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Callstack)

	_, err = l.Load(context.Background(), "caps/missing.yaml")
	assert.True(t, apperrors.IsNotFound(err))

	store.AssertExpectations(t)
}

func TestLoader_Decode(t *testing.T) {
	l := New(storage.NewLocalStorage(""), nil)

	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, err error)
	}{
		{
			name: "empty document",
			src:  "",
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsEmptyFile(err))
			},
		},
		{
			name: "not yaml",
			src:  "- Entry: [unclosed",
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsParseError(err))
			},
		},
		{
			name: "missing Entry key",
			src:  "- entry: {}",
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsMalformedRecord(err))
				assert.Contains(t, err.Error(), `"Entry"`)
			},
		},
		{
			name: "missing callstack",
			src:  "- Entry: {type_tree: {tree: [{type: A, size: 1, global_offset: 0, total_access: 1}]}}",
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsMalformedRecord(err))
				assert.Contains(t, err.Error(), "entry 0")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := l.Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Nil(t, entries)
			tt.check(t, err)
		})
	}
}

func TestLoader_DecodeEmptyList(t *testing.T) {
	entries, err := New(storage.NewLocalStorage(""), nil).Decode(strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoader_OpenNotFound(t *testing.T) {
	_, err := New(storage.NewLocalStorage(t.TempDir()), nil).Open(context.Background(), filepath.Join("no", "such.yaml"))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.False(t, errors.Is(err, apperrors.ErrParseError))
}
