package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/txnload/internal/batch"
	"github.com/bft-labs/txnload/internal/domain"
	"github.com/bft-labs/txnload/internal/ports"
	"github.com/bft-labs/txnload/internal/retry"
	"github.com/bft-labs/txnload/pkg/log"
)

// Writer submits put requests to a table in batches, one call at a time.
type Writer struct {
	tables    ports.TableWriter
	table     string
	batchSize int
	policy    retry.Policy
	logger    log.Logger
}

// NewWriter creates a writer for table. batchSize is capped at
// domain.MaxBatchWriteItems.
func NewWriter(tables ports.TableWriter, table string, batchSize int, policy retry.Policy, logger log.Logger) *Writer {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Writer{
		tables:    tables,
		table:     table,
		batchSize: batchSize,
		policy:    policy,
		logger:    logger,
	}
}

// Write submits reqs in order and returns one result per batch.
//
// A batch whose call fails is abandoned and the next batch is tried.
// Unprocessed items are resubmitted under the retry policy. Once ctx is done
// the remaining batches are reported as skipped without being sent.
func (w *Writer) Write(ctx context.Context, reqs []domain.PutRequest) ([]domain.BatchResult, error) {
	batches, err := batch.Batches(reqs, w.batchSize)
	if err != nil {
		return nil, err
	}

	backoff := w.policy.NewBackoff()
	results := make([]domain.BatchResult, 0, len(batches))
	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			results = append(results, domain.BatchResult{
				Number:   b.Number,
				Status:   domain.BatchSkipped,
				Requests: b.Size(),
				Dropped:  b.Indices(),
				Error:    err.Error(),
			})
			continue
		}
		backoff.Reset()
		results = append(results, w.writeBatch(ctx, b, backoff))
	}
	return results, nil
}

// writeBatch drives one batch through submit and resubmit until the service
// accepts everything, the call fails, or the policy gives up.
func (w *Writer) writeBatch(ctx context.Context, b domain.Batch, backoff *retry.Backoff) domain.BatchResult {
	res := domain.BatchResult{Number: b.Number, Requests: b.Size()}
	pending := b.Requests

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if !w.policy.Allows(attempt) {
				res.Status = domain.BatchExhausted
				res.Dropped = domain.Indices(pending)
				res.Error = fmt.Errorf("%w: %d items unprocessed after %d resubmissions",
					domain.ErrRetriesExhausted, len(pending), attempt-1).Error()
				w.logger.Error("batch unprocessed items remain",
					log.Int("batch", b.Number),
					log.Int("total", b.Total),
					log.Int("unprocessed", len(pending)),
					log.Ints("dropped", res.Dropped),
				)
				return res
			}
			if err := backoff.Wait(ctx); err != nil {
				return w.abandon(b, res, pending, err)
			}
		}

		unprocessed, err := w.tables.Write(ctx, w.table, pending)
		res.Calls++
		if err != nil {
			return w.abandon(b, res, pending, err)
		}

		if len(unprocessed) == 0 {
			res.Status = domain.BatchWritten
			w.logger.Info("batch succeeded",
				log.Int("batch", b.Number),
				log.Int("total", b.Total),
				log.Int("items", b.Size()),
				log.Int("calls", res.Calls),
			)
			return res
		}

		pending = unprocessed
		w.logger.Warn("batch has unprocessed items",
			log.Int("batch", b.Number),
			log.Int("unprocessed", len(pending)),
			log.Int("attempt", attempt+1),
			log.Duration("backoff", backoff.Current()),
		)
	}
}

// abandon records the batch as failed with pending as the records not written.
func (w *Writer) abandon(b domain.Batch, res domain.BatchResult, pending []domain.PutRequest, err error) domain.BatchResult {
	res.Status = domain.BatchFailed
	res.Dropped = domain.Indices(pending)
	res.Error = err.Error()
	w.logger.Error("batch failed",
		log.Int("batch", b.Number),
		log.Int("total", b.Total),
		log.Ints("dropped", res.Dropped),
		log.Err(err),
	)
	return res
}
