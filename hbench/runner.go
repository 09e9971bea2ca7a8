package hbench

import (
	"context"
	"fmt"
)

// RunRepeated executes a scenario a fixed number of times and aggregates the
// samples. A failing run aborts the remaining runs; the samples collected
// before the failure still go into the returned aggregate.
func RunRepeated(ctx context.Context, s *Scenario, runs int) (AggregateResult, error) {
	if runs < 1 {
		return AggregateResult{}, fmt.Errorf("scenario %q: runs must be >= 1, got %d", s.cfg.Name, runs)
	}

	samples := make([]RunResult, 0, runs)
	for run := 1; run <= runs; run++ {
		if runs > 1 {
			fmt.Printf("  [Run %d/%d]\n", run, runs)
		}
		res, err := s.Run(ctx)
		if err != nil {
			return NewAggregateResult(s.cfg.Name, samples), fmt.Errorf("run %d/%d: %w", run, runs, err)
		}
		samples = append(samples, res)
	}

	agg := NewAggregateResult(s.cfg.Name, samples)
	if runs > 1 {
		fmt.Printf("  Average write speed: %.2f MB/s\n", agg.AvgWriteMBps)
		fmt.Printf("  Average read speed: %.2f MB/s\n", agg.AvgReadMBps)
	}
	return agg, nil
}
