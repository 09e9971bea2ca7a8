package hbench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalClient benchmarks a local or mounted filesystem (e.g. a HopsFS mount)
// by copying staged files into the target directory tree.
type LocalClient struct {
	cfg *LocalClientConfig
}

type LocalClientConfig struct {
	// ChunkSize is the copy/read buffer size. DefaultCopyChunkSize when zero.
	ChunkSize int
}

func NewLocalClient(cfg *LocalClientConfig) *LocalClient {
	if cfg == nil {
		cfg = &LocalClientConfig{}
	}
	return &LocalClient{cfg: cfg}
}

func (c *LocalClient) Kind() string {
	return "local"
}

func (c *LocalClient) BatchMode() bool {
	return false
}

// threadDir returns the thread_<i> directory an item lands in. Items are
// spread round-robin over the partitions so that concurrent writers don't
// hammer a single directory.
func (c *LocalClient) threadDir(target Target, item TestItem) string {
	if target.Partitions <= 0 {
		return target.Root
	}
	return filepath.Join(target.Root, fmt.Sprintf("thread_%d", item.Index%target.Partitions))
}

func (c *LocalClient) targetPath(target Target, item TestItem) string {
	return filepath.Join(c.threadDir(target, item), filepath.Base(item.LocalPath))
}

// PrepareTarget creates the target root and its thread directories. MkdirAll
// makes this idempotent across runs.
func (c *LocalClient) PrepareTarget(ctx context.Context, target Target) error {
	if err := os.MkdirAll(target.Root, os.ModePerm); err != nil {
		return err
	}
	for i := 0; i < target.Partitions; i++ {
		if err := os.MkdirAll(filepath.Join(target.Root, fmt.Sprintf("thread_%d", i)), os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}

func (c *LocalClient) WriteItem(ctx context.Context, target Target, item TestItem) error {
	return copyFile(item.LocalPath, c.targetPath(target, item), clampChunk(c.cfg.ChunkSize, item.Size))
}

func (c *LocalClient) ReadItem(ctx context.Context, target Target, item TestItem) error {
	f, err := os.Open(c.targetPath(target, item))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = drainReader(f, clampChunk(c.cfg.ChunkSize, item.Size))
	return err
}

func (c *LocalClient) DeleteItem(ctx context.Context, target Target, item TestItem) error {
	return os.Remove(c.targetPath(target, item))
}

// DeleteTarget removes the thread directories and then the root. Plain Remove
// keeps rmdir semantics: a directory that still has files in it stays, and
// the caller's sweeper records the failure.
func (c *LocalClient) DeleteTarget(ctx context.Context, target Target) error {
	var firstErr error
	for i := 0; i < target.Partitions; i++ {
		if err := os.Remove(filepath.Join(target.Root, fmt.Sprintf("thread_%d", i))); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := os.Remove(target.Root); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
