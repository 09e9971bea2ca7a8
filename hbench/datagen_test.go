package hbench

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateExactSizes(t *testing.T) {
	dir := t.TempDir()

	sizes := []int64{1, 1024, 100 * 1024, GeneratorChunkSize, GeneratorChunkSize + 3}
	for _, size := range sizes {
		for _, profile := range []ContentProfile{ZeroFill, RandomFill} {
			path := filepath.Join(dir, fmt.Sprintf("f_%d_%d.dat", size, profile))
			require.NoError(t, Generate(path, size, profile))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, size, info.Size(), "generated file must have exactly the requested size")
		}
	}
}

func TestGenerateZeroFill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.dat")
	require.NoError(t, Generate(path, 4096, ZeroFill))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 4096), content)
}

func TestGenerateRandomFill(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.dat")
	second := filepath.Join(dir, "b.dat")
	require.NoError(t, Generate(first, 100*1024, RandomFill))
	require.NoError(t, Generate(second, 100*1024, RandomFill))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.NotEqual(t, make([]byte, 100*1024), a, "random content must not be all zero")
	assert.False(t, bytes.Equal(a, b), "two random files should not have identical content")
}

func TestGenerateMissingParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "f.dat")
	assert.Error(t, Generate(path, 1024, ZeroFill))
}

func TestProfileAndPrefixThreshold(t *testing.T) {
	assert.Equal(t, RandomFill, ProfileFor(100*1024*1024-1))
	assert.Equal(t, ZeroFill, ProfileFor(100*1024*1024))
	assert.Equal(t, "small_file", FilePrefix(100*1024*1024-1))
	assert.Equal(t, "large_file", FilePrefix(100*1024*1024))
}
