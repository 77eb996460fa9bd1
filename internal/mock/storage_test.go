package mock

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStorage_OpenPut(t *testing.T) {
	m := &MockStorage{}
	m.ExpectOpen("in.yaml", "[]")
	m.ExpectOpenError("missing.yaml", errors.New("not found"))
	m.ExpectPut("out.folded", nil)

	rc, err := m.Open(context.Background(), "in.yaml")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "[]", string(data))

	_, err = m.Open(context.Background(), "missing.yaml")
	assert.EqualError(t, err, "not found")

	require.NoError(t, m.Put(context.Background(), "out.folded", strings.NewReader("first")))
	require.NoError(t, m.Put(context.Background(), "out.folded", strings.NewReader("a;b 4\n")))
	assert.Equal(t, "a;b 4\n", string(m.Captured("out.folded")))
	assert.Nil(t, m.Captured("other"))

	m.AssertExpectations(t)
}

func TestMockStorage_List(t *testing.T) {
	m := &MockStorage{}
	m.ExpectList("caps", "*.yaml", []string{"caps/a.yaml"})
	m.On("Exists", context.Background(), "caps/a.yaml").Return(true, nil)
	m.On("URL", "caps/a.yaml").Return("file://caps/a.yaml")

	keys, err := m.List(context.Background(), "caps", "*.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"caps/a.yaml"}, keys)

	ok, err := m.Exists(context.Background(), "caps/a.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "file://caps/a.yaml", m.URL("caps/a.yaml"))
}
