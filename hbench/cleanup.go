package hbench

import (
	"log"
	"os"
)

// SweepFailure is one cleanup step that didn't succeed.
type SweepFailure struct {
	Target string
	Err    error
}

// Sweeper runs best-effort cleanup steps. A failing step never stops the
// sweep; it is recorded and logged instead, so callers (and tests) can see
// exactly what was attempted and what was left behind.
type Sweeper struct {
	warn      *log.Logger
	attempted int
	failures  []SweepFailure
}

func NewSweeper(warn *log.Logger) *Sweeper {
	return &Sweeper{warn: warn}
}

// Attempt runs one cleanup step identified by target.
func (s *Sweeper) Attempt(target string, fn func() error) {
	s.attempted++
	if err := fn(); err != nil {
		s.failures = append(s.failures, SweepFailure{Target: target, Err: err})
		if s.warn != nil {
			s.warn.Printf("cleanup of %s failed: %v", target, err)
		}
	}
}

// Attempted is the number of steps the sweeper ran.
func (s *Sweeper) Attempted() int {
	return s.attempted
}

// Failures lists the steps that failed, in the order they were attempted.
func (s *Sweeper) Failures() []SweepFailure {
	return s.failures
}

// removeIfExists deletes a file or empty directory, treating an already
// missing path as cleaned up.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
