package hbench

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// commandRunner runs one external command to completion. Abstracted so tests
// can record invocations without a cluster.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner shells out for real. A non-zero exit status comes back as an
// error carrying the process's stderr.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// HdfsClient benchmarks HDFS through the hdfs dfs command line client. Both
// transfer directions move the whole staged directory tree in a single
// invocation with the client's own -t thread parallelism.
type HdfsClient struct {
	cfg    *HdfsClientConfig
	runner commandRunner
}

type HdfsClientConfig struct {
	// Binary is the client executable. Defaults to "hdfs".
	Binary string
}

func NewHdfsClient(cfg *HdfsClientConfig) *HdfsClient {
	if cfg == nil {
		cfg = &HdfsClientConfig{}
	}
	if cfg.Binary == "" {
		cfg.Binary = "hdfs"
	}
	return &HdfsClient{cfg: cfg, runner: execRunner{}}
}

func (c *HdfsClient) Kind() string {
	return "hdfs"
}

func (c *HdfsClient) BatchMode() bool {
	return true
}

func (c *HdfsClient) PrepareTarget(ctx context.Context, target Target) error {
	return c.runner.Run(ctx, c.cfg.Binary, "dfs", "-mkdir", "-p", target.Root)
}

// WriteBatch copies the staged directory into HDFS in one invocation.
func (c *HdfsClient) WriteBatch(ctx context.Context, target Target, localDir string, threads int) error {
	return c.runner.Run(ctx, c.cfg.Binary, "dfs", "-copyFromLocal", "-t", strconv.Itoa(threads), localDir, target.Root)
}

// ReadBatch copies the remote directory back into localDir in one invocation.
func (c *HdfsClient) ReadBatch(ctx context.Context, target Target, localDir string, threads int) error {
	return c.runner.Run(ctx, c.cfg.Binary, "dfs", "-copyToLocal", "-t", strconv.Itoa(threads), target.Root, localDir)
}

func (c *HdfsClient) DeleteTarget(ctx context.Context, target Target) error {
	return c.runner.Run(ctx, c.cfg.Binary, "dfs", "-rm", "-r", "-f", target.Root)
}
