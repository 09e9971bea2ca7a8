package hbench

import (
	"math/rand"
	"os"
	"time"
)

// ContentProfile selects how generated test files are filled.
type ContentProfile int

const (
	// ZeroFill writes zero bytes from a reused buffer. Used for large files
	// where content entropy doesn't matter but real disk allocation does.
	ZeroFill ContentProfile = iota
	// RandomFill writes random bytes so that storage-side compression or
	// deduplication can't skew the measurement. Used for small files.
	RandomFill
)

// GeneratorChunkSize is the write buffer size for generated files.
const GeneratorChunkSize = 10 * 1024 * 1024

// files of at least this size get the "large_file" name prefix and the zero-fill profile
const largeFileThreshold = 100 * 1024 * 1024

// ProfileFor returns the content profile matching a file size.
func ProfileFor(sizeBytes int64) ContentProfile {
	if sizeBytes >= largeFileThreshold {
		return ZeroFill
	}
	return RandomFill
}

// FilePrefix returns the base name prefix for generated files of a given size.
func FilePrefix(sizeBytes int64) string {
	if sizeBytes >= largeFileThreshold {
		return "large_file"
	}
	return "small_file"
}

// Generate creates a new file at path containing exactly sizeBytes bytes.
// The parent directory must already exist. Any write error aborts generation
// and is returned as-is; a partially written file is left behind for the
// caller's cleanup.
func Generate(path string, sizeBytes int64, profile ContentProfile) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// size the buffer to the smaller of one chunk and the whole file
	bufSize := int64(GeneratorChunkSize)
	if sizeBytes < bufSize {
		bufSize = sizeBytes
	}
	buf := make([]byte, bufSize)

	var rng *rand.Rand
	if profile == RandomFill {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	written := int64(0)
	for written < sizeBytes {
		chunk := sizeBytes - written
		if chunk > bufSize {
			chunk = bufSize
		}
		// the zero buffer is reused as-is, the random buffer is refilled per chunk
		if rng != nil {
			rng.Read(buf[:chunk])
		}
		if _, err := f.Write(buf[:chunk]); err != nil {
			f.Close()
			return err
		}
		written += chunk
	}

	return f.Close()
}
