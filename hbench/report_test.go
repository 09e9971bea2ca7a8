package hbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunResultThroughput(t *testing.T) {
	res := RunResult{TotalBytes: 100 * 1024 * 1024, WriteSeconds: 2, ReadSeconds: 4}
	assert.Equal(t, 50.0, res.WriteMBps())
	assert.Equal(t, 25.0, res.ReadMBps())
}

func TestNewAggregateResultMeans(t *testing.T) {
	runs := []RunResult{
		{TotalBytes: 10 * 1024 * 1024, WriteSeconds: 1, ReadSeconds: 1},
		{TotalBytes: 20 * 1024 * 1024, WriteSeconds: 1, ReadSeconds: 1},
		{TotalBytes: 30 * 1024 * 1024, WriteSeconds: 1, ReadSeconds: 1},
	}

	agg := NewAggregateResult("means", runs)
	assert.Equal(t, "means", agg.Scenario)
	assert.Len(t, agg.Runs, 3)
	assert.Equal(t, 20.0, agg.AvgWriteMBps)
	assert.Equal(t, 20.0, agg.AvgReadMBps)
}

func TestNewAggregateResultEmpty(t *testing.T) {
	agg := NewAggregateResult("empty", nil)
	assert.Zero(t, agg.AvgWriteMBps)
	assert.Zero(t, agg.AvgReadMBps)
	assert.Empty(t, agg.Runs)
}

func TestByteFormat(t *testing.T) {
	tests := []struct {
		bytes float64
		want  string
	}{
		{100 * 1024, "100 KB"},
		{1024 * 1024, "1 MB"},
		{100 * 1024 * 1024, "100 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{2560 * 1024 * 1024, "2.50 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ByteFormat(tt.bytes))
	}
}

func TestJsonRoundtrip(t *testing.T) {
	runs := []RunResult{{
		RunID:        "r1",
		Scenario:     "s",
		Backend:      "local",
		Items:        2,
		ItemBytes:    1024,
		TotalBytes:   2048,
		WriteSeconds: 1,
		ReadSeconds:  2,
	}}
	results := []AggregateResult{NewAggregateResult("s", runs)}

	data, err := ToJson(results)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario": "s"`)

	parsed, err := FromJsonByteArray(data)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	require.Len(t, parsed[0].Runs, 1)
	assert.Equal(t, "r1", parsed[0].Runs[0].RunID)
	assert.Equal(t, results[0].AvgWriteMBps, parsed[0].AvgWriteMBps)
}
