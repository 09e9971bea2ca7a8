package hbench

import (
	"fmt"
	"path"
	"path/filepath"
)

// TestItem is one unit of benchmark work: a file of a fixed size with a
// staged local path and a backend-relative key. Items are created during
// staging and never mutated afterwards.
type TestItem struct {
	Index     int
	Size      int64
	LocalPath string
	Key       string
}

// BuildItems lays out the staged local paths and backend keys for every item
// of a scenario. With FilesPerSubdir > 0 the staged files are partitioned
// into subdir_<index/width> directories so that no single directory has to
// hold the whole file count.
func BuildItems(cfg ScenarioConfig) []TestItem {
	items := make([]TestItem, 0, cfg.Items)
	prefix := FilePrefix(cfg.ItemSize)
	for i := 0; i < cfg.Items; i++ {
		name := fmt.Sprintf("%s_%d.dat", prefix, i)
		key := name
		local := filepath.Join(cfg.StagingDir, name)
		if cfg.FilesPerSubdir > 0 {
			sub := fmt.Sprintf("subdir_%d", i/cfg.FilesPerSubdir)
			// backend keys always use forward slashes
			key = path.Join(sub, name)
			local = filepath.Join(cfg.StagingDir, sub, name)
		}
		items = append(items, TestItem{
			Index:     i,
			Size:      cfg.ItemSize,
			LocalPath: local,
			Key:       key,
		})
	}
	return items
}

// StagingSubdirs returns the staging subdirectories BuildItems will place
// files into, in creation order. Empty for flat staging.
func StagingSubdirs(cfg ScenarioConfig) []string {
	if cfg.FilesPerSubdir <= 0 || cfg.Items <= 0 {
		return nil
	}
	count := (cfg.Items + cfg.FilesPerSubdir - 1) / cfg.FilesPerSubdir
	subdirs := make([]string, 0, count)
	for i := 0; i < count; i++ {
		subdirs = append(subdirs, filepath.Join(cfg.StagingDir, fmt.Sprintf("subdir_%d", i)))
	}
	return subdirs
}
