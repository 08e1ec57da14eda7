package ports

import (
	"context"

	"github.com/bft-labs/txnload/internal/domain"
)

// TableWriter submits put requests to a table in a single call.
type TableWriter interface {
	// Write sends reqs (at most domain.MaxBatchWriteItems) to table.
	// It returns the requests the service declined to process; an empty
	// result means everything was accepted. A non-nil error means the call
	// itself failed and nothing can be assumed about what was written.
	Write(ctx context.Context, table string, reqs []domain.PutRequest) ([]domain.PutRequest, error)
}
