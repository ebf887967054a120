package outfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGeneratedFile(t *testing.T) {
	out := GeneratedPath(filepath.Join(t.TempDir(), "page.gsx"))
	assert.Equal(t, "page.gsx.go", filepath.Base(out))

	wrote, err := WriteGeneratedFile(out, []byte("package a\n"))
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = WriteGeneratedFile(out, []byte("package a\n"))
	require.NoError(t, err)
	assert.False(t, wrote, "identical content is not rewritten")

	wrote, err = WriteGeneratedFile(out, []byte("package b\n"))
	require.NoError(t, err)
	assert.True(t, wrote)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(got))
}

func TestWriteGeneratedFile_MissingDir(t *testing.T) {
	_, err := WriteGeneratedFile(filepath.Join(t.TempDir(), "nope", "x.gsx.go"), []byte("x"))
	require.Error(t, err)
}
