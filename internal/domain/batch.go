package domain

import "sort"

// MaxBatchWriteItems is the largest number of requests one BatchWriteItem
// call accepts.
const MaxBatchWriteItems = 25

// PutRequest tags a formatted item as an insert for batch submission.
// Index is the zero-based position of the source record in the input file.
type PutRequest struct {
	Index int
	Item  Record
}

// Batch is an ordered group of at most MaxBatchWriteItems put requests.
// Number is one-based; Total is the number of batches in the run.
type Batch struct {
	Number   int
	Total    int
	Requests []PutRequest
}

// NewBatch creates a batch for the given position in the run.
func NewBatch(number, total int, requests []PutRequest) Batch {
	return Batch{Number: number, Total: total, Requests: requests}
}

// Size returns the number of requests in the batch.
func (b Batch) Size() int {
	return len(b.Requests)
}

// Empty returns true if the batch has no requests.
func (b Batch) Empty() bool {
	return len(b.Requests) == 0
}

// Indices returns the input positions of the batch's records.
func (b Batch) Indices() []int {
	return Indices(b.Requests)
}

// Indices returns the input positions of reqs in ascending order.
func Indices(reqs []PutRequest) []int {
	out := make([]int, len(reqs))
	for i, r := range reqs {
		out[i] = r.Index
	}
	sort.Ints(out)
	return out
}
