package hbench

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// WriteSpeedsCsv renders the per-run write throughput of every scenario as
// csv, one scenario per row.
func WriteSpeedsCsv(results []AggregateResult) []byte {
	return speedsCsv(results, RunResult.WriteMBps)
}

// ReadSpeedsCsv renders the per-run read throughput of every scenario as
// csv, one scenario per row.
func ReadSpeedsCsv(results []AggregateResult) []byte {
	return speedsCsv(results, RunResult.ReadMBps)
}

func speedsCsv(results []AggregateResult, sample func(RunResult) float64) []byte {
	maxRuns := 0
	for _, r := range results {
		if len(r.Runs) > maxRuns {
			maxRuns = len(r.Runs)
		}
	}

	// array of csv records, header first
	var csvRecords [][]string

	header := []string{"Experiment"}
	for i := 0; i < maxRuns; i++ {
		header = append(header, fmt.Sprintf("Run %d (MB/s)", i+1))
	}
	csvRecords = append(csvRecords, header)

	for _, r := range results {
		row := []string{r.Scenario}
		for _, run := range r.Runs {
			row = append(row, fmt.Sprintf("%.2f", sample(run)))
		}
		csvRecords = append(csvRecords, row)
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)
	_ = w.WriteAll(csvRecords)

	return b.Bytes()
}
