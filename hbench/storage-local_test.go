package hbench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalClientRoundtrip(t *testing.T) {
	ctx := context.Background()
	client := NewLocalClient(nil)
	assert.Equal(t, "local", client.Kind())
	assert.False(t, client.BatchMode())

	staging := t.TempDir()
	target := Target{Root: filepath.Join(t.TempDir(), "out"), Partitions: 1}

	content := []byte("roundtrip content")
	local := filepath.Join(staging, "small_file_0.dat")
	require.NoError(t, os.WriteFile(local, content, 0644))
	item := TestItem{Index: 0, Size: int64(len(content)), LocalPath: local, Key: "small_file_0.dat"}

	require.NoError(t, client.PrepareTarget(ctx, target))
	// preparing twice must not fail
	require.NoError(t, client.PrepareTarget(ctx, target))

	require.NoError(t, client.WriteItem(ctx, target, item))
	copied, err := os.ReadFile(filepath.Join(target.Root, "thread_0", "small_file_0.dat"))
	require.NoError(t, err)
	assert.Equal(t, content, copied, "the copied file must be byte-identical to the staged file")

	require.NoError(t, client.ReadItem(ctx, target, item))

	require.NoError(t, client.DeleteItem(ctx, target, item))
	require.NoError(t, client.DeleteTarget(ctx, target))
	_, err = os.Stat(target.Root)
	assert.True(t, os.IsNotExist(err), "delete must remove the whole target tree")
}

func TestLocalClientSpreadsItemsOverPartitions(t *testing.T) {
	ctx := context.Background()
	client := NewLocalClient(nil)
	staging := t.TempDir()
	target := Target{Root: filepath.Join(t.TempDir(), "out"), Partitions: 2}
	require.NoError(t, client.PrepareTarget(ctx, target))

	for i := 0; i < 4; i++ {
		local := filepath.Join(staging, fmt.Sprintf("small_file_%d.dat", i))
		require.NoError(t, os.WriteFile(local, []byte{byte(i)}, 0644))
		item := TestItem{Index: i, Size: 1, LocalPath: local, Key: filepath.Base(local)}
		require.NoError(t, client.WriteItem(ctx, target, item))
	}

	for i := 0; i < 4; i++ {
		want := filepath.Join(target.Root, fmt.Sprintf("thread_%d", i%2), fmt.Sprintf("small_file_%d.dat", i))
		_, err := os.Stat(want)
		assert.NoError(t, err, "item %d should land in thread_%d", i, i%2)
	}
}

func TestLocalClientFlatTarget(t *testing.T) {
	ctx := context.Background()
	client := NewLocalClient(nil)
	staging := t.TempDir()
	target := Target{Root: filepath.Join(t.TempDir(), "out")}
	require.NoError(t, client.PrepareTarget(ctx, target))

	local := filepath.Join(staging, "small_file_0.dat")
	require.NoError(t, os.WriteFile(local, []byte("x"), 0644))
	item := TestItem{Index: 0, Size: 1, LocalPath: local, Key: "small_file_0.dat"}
	require.NoError(t, client.WriteItem(ctx, target, item))

	_, err := os.Stat(filepath.Join(target.Root, "small_file_0.dat"))
	assert.NoError(t, err, "without partitions items land directly in the root")
}

func TestLocalClientReadMissingItem(t *testing.T) {
	client := NewLocalClient(nil)
	target := Target{Root: t.TempDir()}
	item := TestItem{Index: 0, Size: 1, LocalPath: "unused", Key: "nope.dat"}

	assert.Error(t, client.ReadItem(context.Background(), target, item))
}

func TestLocalClientDeleteTargetKeepsNonEmptyDirs(t *testing.T) {
	ctx := context.Background()
	client := NewLocalClient(nil)
	target := Target{Root: filepath.Join(t.TempDir(), "out"), Partitions: 1}
	require.NoError(t, client.PrepareTarget(ctx, target))

	leftover := filepath.Join(target.Root, "thread_0", "leftover.dat")
	require.NoError(t, os.WriteFile(leftover, []byte("x"), 0644))

	assert.Error(t, client.DeleteTarget(ctx, target))
	_, err := os.Stat(leftover)
	assert.NoError(t, err, "a failed delete must not take the leftover file with it")
}
