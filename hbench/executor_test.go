package hbench

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(n int) []TestItem {
	items := make([]TestItem, n)
	for i := range items {
		items[i] = TestItem{Index: i, Size: 1}
	}
	return items
}

func TestRunBatchRunsEveryItem(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}

	_, err := RunBatch(testItems(25), 4, func(item TestItem) error {
		mu.Lock()
		seen[item.Index] = true
		mu.Unlock()
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, seen, 25)
}

func TestRunBatchSingleWorkerSerializes(t *testing.T) {
	type span struct{ start, end time.Time }
	var mu sync.Mutex
	var spans []span

	_, err := RunBatch(testItems(4), 1, func(item TestItem) error {
		s := span{start: time.Now()}
		time.Sleep(2 * time.Millisecond)
		s.end = time.Now()
		mu.Lock()
		spans = append(spans, s)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, spans, 4)

	sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })
	for i := 1; i < len(spans); i++ {
		assert.False(t, spans[i].start.Before(spans[i-1].end), "operations overlapped with a single worker")
	}
}

func TestRunBatchElapsedTracksConcurrency(t *testing.T) {
	// 6 sleeps of 50ms over 2 workers need 3 rounds
	opTime := 50 * time.Millisecond
	elapsed, err := RunBatch(testItems(6), 2, func(item TestItem) error {
		time.Sleep(opTime)
		return nil
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 3*opTime)
	assert.Less(t, elapsed, 6*opTime, "expected the batch to run in parallel, not serially")
}

func TestRunBatchReturnsFirstErrorAfterAllSettle(t *testing.T) {
	var settled int32
	boom := errors.New("boom")

	_, err := RunBatch(testItems(10), 3, func(item TestItem) error {
		defer atomic.AddInt32(&settled, 1)
		if item.Index == 4 || item.Index == 7 {
			return fmt.Errorf("item %d: %w", item.Index, boom)
		}
		time.Sleep(time.Millisecond)
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(10), atomic.LoadInt32(&settled), "every dispatched operation must settle before the error returns")
}

func TestRunBatchRejectsZeroConcurrency(t *testing.T) {
	called := false
	_, err := RunBatch(testItems(3), 0, func(item TestItem) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
}

func TestRunBatchNoItems(t *testing.T) {
	elapsed, err := RunBatch(nil, 2, func(item TestItem) error {
		t.Error("op must not be called without items")
		return nil
	})

	require.NoError(t, err)
	assert.Less(t, elapsed, time.Second)
}
