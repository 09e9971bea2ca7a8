package hbench

import (
	"fmt"
	"time"
)

// RunBatch dispatches op for every item across a pool of concurrency workers
// and waits for all of them to settle. The returned duration covers exactly
// the span from the first dispatch to the last completion; worker startup is
// outside of it. If any operation fails, the first observed error is returned
// after every dispatched operation has settled, so no work is left running
// unobserved. Items may complete in any order.
func RunBatch(items []TestItem, concurrency int, op func(TestItem) error) (time.Duration, error) {
	if concurrency < 1 {
		return 0, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}

	// a channel to submit the work items
	tasks := make(chan TestItem, len(items))

	// a channel to receive one outcome per item back on the calling goroutine
	results := make(chan error, len(items))

	// create the workers before the timer starts
	for t := 1; t <= concurrency; t++ {
		go func(tasks <-chan TestItem, results chan<- error) {
			for item := range tasks {
				results <- op(item)
			}
		}(tasks, results)
	}

	// start the timer for this batch
	batchTimer := time.Now()

	// submit all the work items
	for _, item := range items {
		tasks <- item
	}
	close(tasks)

	// wait for all outcomes and keep the first error
	var firstErr error
	for range items {
		if err := <-results; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return time.Now().Sub(batchTimer), firstErr
}
