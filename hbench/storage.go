package hbench

import (
	"context"
	"io"
	"os"
)

// DefaultCopyChunkSize is the stream buffer size for copies and drains.
const DefaultCopyChunkSize = 10 * 1024 * 1024

// StorageClient is the capability shared by every backend under test.
// Per-item backends additionally implement ItemClient, batch backends
// BatchClient; BatchMode tells the orchestrator which one to expect.
type StorageClient interface {
	// Kind is a short backend identifier used in results and logs.
	Kind() string
	// BatchMode reports whether the backend moves whole directory trees in a
	// single native operation instead of per-item calls.
	BatchMode() bool
	// PrepareTarget idempotently ensures the target root exists. An already
	// existing root is success, not failure.
	PrepareTarget(ctx context.Context, target Target) error
	// DeleteTarget removes the target root. Called best-effort during cleanup.
	DeleteTarget(ctx context.Context, target Target) error
}

// ItemClient transfers one item per call. Implemented by the local-copy and
// object-store backends.
type ItemClient interface {
	StorageClient
	// WriteItem transfers the staged local file to the backend under the
	// item's key.
	WriteItem(ctx context.Context, target Target, item TestItem) error
	// ReadItem reads the item back from the backend and discards the content.
	ReadItem(ctx context.Context, target Target, item TestItem) error
	// DeleteItem removes one item from the backend. Called best-effort.
	DeleteItem(ctx context.Context, target Target, item TestItem) error
}

// BatchClient transfers a whole staged directory tree in one native call with
// a thread-count hint. Implemented by the HDFS backend.
type BatchClient interface {
	StorageClient
	WriteBatch(ctx context.Context, target Target, localDir string, threads int) error
	ReadBatch(ctx context.Context, target Target, localDir string, threads int) error
}

// copyFile streams src into dst through a fixed-size buffer so that large
// files never sit in memory as a whole.
func copyFile(src, dst string, chunkSize int) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	buf := make([]byte, chunkSize)
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				return werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			out.Close()
			return rerr
		}
	}

	return out.Close()
}

// drainReader consumes r in fixed-size chunks and throws the content away,
// so reads cost no extra memory or disk beyond one buffer.
func drainReader(r io.Reader, chunkSize int) (int64, error) {
	buf := make([]byte, chunkSize)
	var total int64
	for {
		n, err := r.Read(buf)
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// clampChunk caps a buffer size to the item size, with a floor of one byte.
func clampChunk(chunkSize int, itemSize int64) int {
	if chunkSize < 1 {
		chunkSize = DefaultCopyChunkSize
	}
	if itemSize > 0 && itemSize < int64(chunkSize) {
		chunkSize = int(itemSize)
	}
	return chunkSize
}
