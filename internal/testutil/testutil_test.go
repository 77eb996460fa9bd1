package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixture(t *testing.T) {
	data := LoadFixture(t, CaptureFixture)
	assert.Contains(t, string(data), "- Entry:")

	path := GetTestDataPath(t, UnresolvedFixture)
	assert.FileExists(t, path)
}

func TestCopyFixture(t *testing.T) {
	dir := t.TempDir()
	path := CopyFixture(t, dir, filepath.Join(ProfilesDir, "default.memprof.1.yaml"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TypeName: Request")
}

func TestFoldedWeights(t *testing.T) {
	text := "(1, 50%, 8B) a:A_[h1] 0\n(1, 50%, 8B) a:A_[h1];(1, 50%, 8B) b:int_[h1] 8\n"
	assert.Equal(t, []int64{0, 8}, FoldedWeights(t, text))
	assert.Equal(t, int64(8), SumWeights(t, text))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	WriteFile(t, dir, filepath.Join("out", "data.yml"), "[]\n")
	assert.Equal(t, "[]\n", string(ReadFile(t, dir, filepath.Join("out", "data.yml"))))
}
