package domain

import (
	"sort"
	"time"
)

// BatchStatus is the final state of one batch.
type BatchStatus string

const (
	// BatchWritten means the service accepted every request.
	BatchWritten BatchStatus = "written"
	// BatchFailed means the call returned an error; the batch was abandoned.
	BatchFailed BatchStatus = "failed"
	// BatchExhausted means unprocessed items remained when retries ran out.
	BatchExhausted BatchStatus = "exhausted"
	// BatchSkipped means the run was cancelled before the batch was sent.
	BatchSkipped BatchStatus = "skipped"
)

// BatchResult records the outcome of one batch.
type BatchResult struct {
	Number   int         `json:"number"`
	Status   BatchStatus `json:"status"`
	Requests int         `json:"requests"`
	Calls    int         `json:"calls"`
	Dropped  []int       `json:"dropped,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// RunReport summarises one import run.
type RunReport struct {
	RunID        string        `json:"run_id"`
	File         string        `json:"file"`
	Table        string        `json:"table"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	Records      int           `json:"records"`
	TotalBatches int           `json:"total_batches"`
	Batches      []BatchResult `json:"batches"`
	Error        string        `json:"error,omitempty"`
}

// Written returns the number of records the service accepted.
func (r RunReport) Written() int {
	n := 0
	for _, b := range r.Batches {
		n += b.Requests - len(b.Dropped)
	}
	return n
}

// FailedBatches returns the number of batches not fully written.
func (r RunReport) FailedBatches() int {
	n := 0
	for _, b := range r.Batches {
		if b.Status != BatchWritten {
			n++
		}
	}
	return n
}

// Dropped returns the sorted input indices of every record not written.
func (r RunReport) Dropped() []int {
	var out []int
	for _, b := range r.Batches {
		out = append(out, b.Dropped...)
	}
	sort.Ints(out)
	return out
}
