package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/bft-labs/txnload/internal/domain"
)

// BatchWriteAPI is the part of the DynamoDB API TableWriter needs.
// *dynamodb.Client satisfies this interface.
type BatchWriteAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// TableWriter implements ports.TableWriter with BatchWriteItem.
type TableWriter struct {
	client BatchWriteAPI
}

// NewTableWriter creates a TableWriter backed by client.
func NewTableWriter(client BatchWriteAPI) *TableWriter {
	return &TableWriter{client: client}
}

// Write marshals reqs into one BatchWriteItem call for table and returns the
// envelopes of the items the service left unprocessed.
func (w *TableWriter) Write(ctx context.Context, table string, reqs []domain.PutRequest) ([]domain.PutRequest, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	sent, err := WriteRequests(reqs)
	if err != nil {
		return nil, err
	}

	out, err := w.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: sent},
	})
	if err != nil {
		return nil, fmt.Errorf("batch write %s: %w", table, err)
	}
	if out == nil || count(out.UnprocessedItems) == 0 {
		return nil, nil
	}
	if other := count(out.UnprocessedItems) - len(out.UnprocessedItems[table]); other > 0 {
		return nil, fmt.Errorf("%w: %d items for other tables", ErrUnknownUnprocessed, other)
	}

	return unprocessedRequests(reqs, sent, out.UnprocessedItems[table])
}
