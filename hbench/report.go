package hbench

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
)

// RunResult is one scenario execution's measurements.
type RunResult struct {
	RunID           string  `json:"run_id"`
	Scenario        string  `json:"scenario"`
	Backend         string  `json:"backend"`
	Items           int     `json:"items"`
	ItemBytes       int64   `json:"item_bytes"`
	TotalBytes      int64   `json:"total_bytes"`
	WriteSeconds    float64 `json:"write_secs"`
	ReadSeconds     float64 `json:"read_secs"`
	CleanupFailures int     `json:"cleanup_failures,omitempty"`
}

func (r RunResult) WriteMBps() float64 {
	return throughputMBps(r.TotalBytes, r.WriteSeconds)
}

func (r RunResult) ReadMBps() float64 {
	return throughputMBps(r.TotalBytes, r.ReadSeconds)
}

func throughputMBps(totalBytes int64, seconds float64) float64 {
	return float64(totalBytes) / seconds / 1024 / 1024
}

// AggregateResult is the set of samples from repeated runs of one scenario
// plus their arithmetic means.
type AggregateResult struct {
	Scenario     string      `json:"scenario"`
	Runs         []RunResult `json:"runs"`
	AvgWriteMBps float64     `json:"avg_write_mbps"`
	AvgReadMBps  float64     `json:"avg_read_mbps"`
}

// NewAggregateResult computes the mean write and read throughput over the
// collected runs.
func NewAggregateResult(scenario string, runs []RunResult) AggregateResult {
	agg := AggregateResult{Scenario: scenario, Runs: runs}
	if len(runs) == 0 {
		return agg
	}

	writeSamples := make([]float64, 0, len(runs))
	readSamples := make([]float64, 0, len(runs))
	for _, r := range runs {
		writeSamples = append(writeSamples, r.WriteMBps())
		readSamples = append(readSamples, r.ReadMBps())
	}
	agg.AvgWriteMBps, _ = stats.Mean(writeSamples)
	agg.AvgReadMBps, _ = stats.Mean(readSamples)
	return agg
}

// PrintSummary renders the final results table to stdout.
func PrintSummary(results []AggregateResult) {
	if len(results) == 0 {
		fmt.Println("\nNo tests were run.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("BENCHMARK RESULTS SUMMARY")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%-35s %-20s %-20s\n", "Test Name", "Write Speed (MB/s)", "Read Speed (MB/s)")
	fmt.Println(strings.Repeat("-", 80))

	for _, r := range results {
		fmt.Printf("%-35s %18.2f  %18.2f\n", r.Scenario, r.AvgWriteMBps, r.AvgReadMBps)
	}

	fmt.Println(strings.Repeat("=", 80))
}

// formats bytes to KB, MB or GB
func ByteFormat(bytes float64) string {
	if bytes >= 1024*1024*1024 {
		return fmt.Sprintf("%.2f GB", bytes/1024/1024/1024)
	}
	if bytes >= 1024*1024 {
		return fmt.Sprintf("%.f MB", bytes/1024/1024)
	}
	return fmt.Sprintf("%.f KB", bytes/1024)
}
