package hbench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Target describes where a scenario's operations land: a directory path, a
// bucket name or a remote HDFS directory. Partitions is the number of
// thread_<i> subdirectories the local-copy client spreads items over
// (0 means a flat target).
type Target struct {
	Root       string
	Partitions int
}

// ScenarioConfig is the full parameterization of one benchmark scenario.
type ScenarioConfig struct {
	Name        string
	Items       int
	ItemSize    int64
	Concurrency int
	StagingDir  string
	Target      Target
	// FilesPerSubdir > 0 partitions the staged files into subdir_<i/width>
	// directories. Used by the HDFS scenarios.
	FilesPerSubdir int
}

func (cfg *ScenarioConfig) validate() error {
	if cfg.Items < 1 {
		return fmt.Errorf("scenario %q: item count must be >= 1, got %d", cfg.Name, cfg.Items)
	}
	if cfg.ItemSize < 1 {
		return fmt.Errorf("scenario %q: item size must be >= 1 byte, got %d", cfg.Name, cfg.ItemSize)
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("scenario %q: concurrency must be >= 1, got %d", cfg.Name, cfg.Concurrency)
	}
	if cfg.StagingDir == "" {
		return fmt.Errorf("scenario %q: staging dir must not be empty", cfg.Name)
	}
	if cfg.Target.Root == "" {
		return fmt.Errorf("scenario %q: target root must not be empty", cfg.Name)
	}
	return nil
}

// Config is the benchmark suite configuration. It can be loaded from a yaml
// file and overridden by command line flags.
type Config struct {
	OutputDir      string  `yaml:"output_dir"`
	HdfsOutputDir  string  `yaml:"hdfs_output_dir"`
	NumFilesLarge  int     `yaml:"num_files_large"`
	NumFilesSmall  int     `yaml:"num_files_small"`
	SizeGB         float64 `yaml:"size_gb"`
	SizeKB         int     `yaml:"size_kb"`
	ParallelWrites int     `yaml:"parallel_writes"`
	BucketLarge    string  `yaml:"bucket_large"`
	BucketSmall    string  `yaml:"bucket_small"`
	Runs           int     `yaml:"runs"`
	FilesPerSubdir int     `yaml:"files_per_subdir"`
	StagingDir     string  `yaml:"staging_dir"`
	Endpoint       string  `yaml:"endpoint"`
	Region         string  `yaml:"region"`
	Insecure       bool    `yaml:"insecure"`
	HdfsBinary     string  `yaml:"hdfs_binary"`
}

// DefaultConfig returns the stock configuration of the benchmark suite.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:      "/hopsfs/Jupyter/test",
		HdfsOutputDir:  "/Projects/test",
		NumFilesLarge:  5,
		NumFilesSmall:  1000,
		SizeGB:         1.0,
		SizeKB:         100,
		ParallelWrites: 32,
		BucketLarge:    "test-large",
		BucketSmall:    "test-small",
		Runs:           1,
		FilesPerSubdir: 100,
		StagingDir:     "/tmp",
		Endpoint:       "http://minio.service.consul:9000",
		Region:         "us-east-1",
		HdfsBinary:     "hdfs",
	}
}

// LoadConfigFile reads a yaml suite configuration. Missing keys keep their
// default values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects suite configurations that could never produce a valid
// scenario.
func (c *Config) Validate() error {
	if c.NumFilesLarge < 1 {
		return fmt.Errorf("num_files_large must be >= 1, got %d", c.NumFilesLarge)
	}
	if c.NumFilesSmall < 1 {
		return fmt.Errorf("num_files_small must be >= 1, got %d", c.NumFilesSmall)
	}
	if c.SizeGB <= 0 {
		return fmt.Errorf("size_gb must be > 0, got %g", c.SizeGB)
	}
	if c.SizeKB < 1 {
		return fmt.Errorf("size_kb must be >= 1, got %d", c.SizeKB)
	}
	if c.ParallelWrites < 1 {
		return fmt.Errorf("parallel_writes must be >= 1, got %d", c.ParallelWrites)
	}
	if c.Runs < 1 {
		return fmt.Errorf("runs must be >= 1, got %d", c.Runs)
	}
	if c.FilesPerSubdir < 1 {
		return fmt.Errorf("files_per_subdir must be >= 1, got %d", c.FilesPerSubdir)
	}
	return nil
}

// LargeFileBytes is the configured large file size in bytes.
func (c *Config) LargeFileBytes() int64 {
	return int64(c.SizeGB * 1024 * 1024 * 1024)
}

// SmallFileBytes is the configured small file size in bytes.
func (c *Config) SmallFileBytes() int64 {
	return int64(c.SizeKB) * 1024
}
