package hbench

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/schollz/progressbar/v2"
)

// Scenario binds one scenario configuration to a storage client and runs the
// stage, write, read, cleanup cycle against it.
type Scenario struct {
	cfg    ScenarioConfig
	client StorageClient
	warn   *log.Logger
}

// NewScenario validates the configuration and checks that the client's
// announced execution mode matches the operations it implements. A nil warn
// logger discards cleanup warnings.
func NewScenario(cfg ScenarioConfig, client StorageClient, warn *log.Logger) (*Scenario, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("scenario %q: storage client must not be nil", cfg.Name)
	}
	if client.BatchMode() {
		if _, ok := client.(BatchClient); !ok {
			return nil, fmt.Errorf("scenario %q: %s client announces batch mode but implements no batch operations", cfg.Name, client.Kind())
		}
	} else if _, ok := client.(ItemClient); !ok {
		return nil, fmt.Errorf("scenario %q: %s client announces per-item mode but implements no per-item operations", cfg.Name, client.Kind())
	}
	if warn == nil {
		warn = log.New(io.Discard, "", 0)
	}
	return &Scenario{cfg: cfg, client: client, warn: warn}, nil
}

// Run executes one full cycle. Only the write and read phases are timed;
// staging, target preparation and cleanup happen outside the timers. Cleanup
// always runs, also after a failed phase, and is never fatal. On a fatal
// phase error the error is returned and the result is discarded.
func (s *Scenario) Run(ctx context.Context) (RunResult, error) {
	items := BuildItems(s.cfg)
	res := RunResult{
		RunID:      uuid.NewV4().String(),
		Scenario:   s.cfg.Name,
		Backend:    s.client.Kind(),
		Items:      len(items),
		ItemBytes:  s.cfg.ItemSize,
		TotalBytes: int64(len(items)) * s.cfg.ItemSize,
	}

	fmt.Printf("\n=== %s: %d files x %s (%d parallel) ===\n", s.cfg.Name, len(items), ByteFormat(float64(s.cfg.ItemSize)), s.cfg.Concurrency)

	err := s.measure(ctx, items, &res)

	sweeper := NewSweeper(s.warn)
	s.cleanup(ctx, items, sweeper)
	res.CleanupFailures = len(sweeper.Failures())

	if err != nil {
		return RunResult{}, err
	}
	return res, nil
}

func (s *Scenario) measure(ctx context.Context, items []TestItem, res *RunResult) error {
	if err := s.stage(items); err != nil {
		return fmt.Errorf("staging: %w", err)
	}
	if err := s.client.PrepareTarget(ctx, s.cfg.Target); err != nil {
		return fmt.Errorf("prepare target: %w", err)
	}

	writeSecs, err := s.writePhase(ctx, items)
	if err != nil {
		return fmt.Errorf("write phase: %w", err)
	}
	res.WriteSeconds = writeSecs
	s.printPhase("Write", "written", writeSecs, res)

	readSecs, err := s.readPhase(ctx, items)
	if err != nil {
		return fmt.Errorf("read phase: %w", err)
	}
	res.ReadSeconds = readSecs
	s.printPhase("Read", "read", readSecs, res)

	return nil
}

// stage pre-creates every test file on local disk before any timer starts.
func (s *Scenario) stage(items []TestItem) error {
	if err := os.MkdirAll(s.cfg.StagingDir, os.ModePerm); err != nil {
		return err
	}
	for _, dir := range StagingSubdirs(s.cfg) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}

	fmt.Printf("Pre-creating %d x %s files on local disk\n", len(items), ByteFormat(float64(s.cfg.ItemSize)))
	profile := ProfileFor(s.cfg.ItemSize)
	if profile == ZeroFill {
		// a handful of big files, each slow enough for its own line
		for _, item := range items {
			fmt.Printf("  Creating file %d/%d: %s\n", item.Index+1, len(items), item.LocalPath)
			if err := Generate(item.LocalPath, item.Size, profile); err != nil {
				return err
			}
		}
		return nil
	}

	bar := progressbar.NewOptions(len(items), progressbar.OptionSetRenderBlankState(true))
	for _, item := range items {
		_ = bar.Add(1)
		if err := Generate(item.LocalPath, item.Size, profile); err != nil {
			return err
		}
	}
	fmt.Print("\n\n")
	return nil
}

func (s *Scenario) writePhase(ctx context.Context, items []TestItem) (float64, error) {
	if bc, ok := s.client.(BatchClient); ok && s.client.BatchMode() {
		writeTimer := time.Now()
		if err := bc.WriteBatch(ctx, s.cfg.Target, s.cfg.StagingDir, s.cfg.Concurrency); err != nil {
			return 0, err
		}
		return time.Now().Sub(writeTimer).Seconds(), nil
	}

	ic := s.client.(ItemClient)
	elapsed, err := RunBatch(items, s.cfg.Concurrency, func(item TestItem) error {
		return ic.WriteItem(ctx, s.cfg.Target, item)
	})
	if err != nil {
		return 0, err
	}
	return elapsed.Seconds(), nil
}

func (s *Scenario) readPhase(ctx context.Context, items []TestItem) (float64, error) {
	if bc, ok := s.client.(BatchClient); ok && s.client.BatchMode() {
		// batch reads land in a sibling of the staging dir; creating it is
		// setup and stays outside the timer
		downloadDir := s.downloadDir()
		if err := os.MkdirAll(downloadDir, os.ModePerm); err != nil {
			return 0, err
		}
		readTimer := time.Now()
		if err := bc.ReadBatch(ctx, s.cfg.Target, downloadDir, s.cfg.Concurrency); err != nil {
			return 0, err
		}
		return time.Now().Sub(readTimer).Seconds(), nil
	}

	ic := s.client.(ItemClient)
	elapsed, err := RunBatch(items, s.cfg.Concurrency, func(item TestItem) error {
		return ic.ReadItem(ctx, s.cfg.Target, item)
	})
	if err != nil {
		return 0, err
	}
	return elapsed.Seconds(), nil
}

func (s *Scenario) printPhase(verb, direction string, seconds float64, res *RunResult) {
	fmt.Printf("%s time taken: %.2f seconds\n", verb, seconds)
	fmt.Printf("Total data %s: %s\n", direction, ByteFormat(float64(res.TotalBytes)))
	fmt.Printf("%s speed: %.2f MB/s\n", verb, throughputMBps(res.TotalBytes, seconds))
	if ProfileFor(s.cfg.ItemSize) == RandomFill {
		fmt.Printf("Files per second: %.2f\n", float64(res.Items)/seconds)
	}
}

// cleanup removes everything a run may have left behind: backend objects, the
// backend target, the download directory and the staged local files. Every
// removal is attempted regardless of earlier failures.
func (s *Scenario) cleanup(ctx context.Context, items []TestItem, sweeper *Sweeper) {
	if ic, ok := s.client.(ItemClient); ok && !s.client.BatchMode() {
		fmt.Printf("\nDeleting %d x %s objects\n", len(items), ByteFormat(float64(s.cfg.ItemSize)))
		bar := progressbar.NewOptions(len(items), progressbar.OptionSetRenderBlankState(true))
		for _, item := range items {
			item := item
			_ = bar.Add(1)
			sweeper.Attempt(item.Key, func() error {
				return ic.DeleteItem(ctx, s.cfg.Target, item)
			})
		}
		fmt.Print("\n\n")
	} else {
		fmt.Println("\nCleaning up target files...")
	}

	sweeper.Attempt(s.cfg.Target.Root, func() error {
		return s.client.DeleteTarget(ctx, s.cfg.Target)
	})

	if s.client.BatchMode() {
		downloadDir := s.downloadDir()
		sweeper.Attempt(downloadDir, func() error {
			return os.RemoveAll(downloadDir)
		})
	}

	fmt.Println("Cleaning up local files...")
	for _, item := range items {
		local := item.LocalPath
		sweeper.Attempt(local, func() error {
			return removeIfExists(local)
		})
	}
	for _, dir := range StagingSubdirs(s.cfg) {
		dir := dir
		sweeper.Attempt(dir, func() error {
			return removeIfExists(dir)
		})
	}
	sweeper.Attempt(s.cfg.StagingDir, func() error {
		return removeIfExists(s.cfg.StagingDir)
	})
}

func (s *Scenario) downloadDir() string {
	return s.cfg.StagingDir + "_download"
}
