// Package batch splits put requests into groups the storage service accepts.
package batch

import (
	"errors"

	"github.com/bft-labs/txnload/internal/domain"
)

// ErrInvalidSize is returned when the chunk size is not positive.
var ErrInvalidSize = errors.New("batch: chunk size must be positive")

// Chunk splits items into consecutive groups of at most size elements.
// Concatenating the groups in order yields items again; only the last group
// may be shorter. The groups share items' backing array.
func Chunk[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	chunks := make([][]T, 0, Count(len(items), size))
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end:end])
	}
	return chunks, nil
}

// Count returns the number of chunks Chunk produces for n items.
func Count(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Batches groups requests into numbered batches of at most size requests.
// size is capped at domain.MaxBatchWriteItems.
func Batches(reqs []domain.PutRequest, size int) ([]domain.Batch, error) {
	if size > domain.MaxBatchWriteItems {
		size = domain.MaxBatchWriteItems
	}
	chunks, err := Chunk(reqs, size)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Batch, len(chunks))
	for i, c := range chunks {
		out[i] = domain.NewBatch(i+1, len(chunks), c)
	}
	return out, nil
}
