package dynamo

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/bft-labs/txnload/internal/domain"
)

// ErrUnformattedNumber is returned when a number reaches the marshaller
// without an exact decimal.
var ErrUnformattedNumber = errors.New("dynamo: number not formatted as decimal")

// ErrUnknownUnprocessed is returned when the service reports an unprocessed
// item that was not part of the request.
var ErrUnknownUnprocessed = errors.New("dynamo: unprocessed item not in request")

// MarshalItem converts a formatted record into a DynamoDB item.
// Numbers become N attributes carrying the decimal's text.
func MarshalItem(rec domain.Record) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, len(rec))
	for _, f := range rec {
		av, err := marshalValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		item[f.Name] = av
	}
	return item, nil
}

func marshalValue(v domain.Value) (types.AttributeValue, error) {
	switch v.Kind {
	case domain.KindNumber:
		if !v.Exact {
			return nil, fmt.Errorf("%w: %s", ErrUnformattedNumber, v.Number)
		}
		return &types.AttributeValueMemberN{Value: v.Decimal.String()}, nil
	case domain.KindString:
		return attributevalue.Marshal(v.Str)
	case domain.KindBool:
		return attributevalue.Marshal(v.Bool)
	case domain.KindNull:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case domain.KindList:
		list := make([]types.AttributeValue, len(v.List))
		for i, elem := range v.List {
			av, err := marshalValue(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			list[i] = av
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case domain.KindMap:
		m, err := MarshalItem(v.Map)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	}
	return nil, fmt.Errorf("unsupported value kind %v", v.Kind)
}

// WriteRequests marshals put envelopes into write requests, in order.
func WriteRequests(reqs []domain.PutRequest) ([]types.WriteRequest, error) {
	out := make([]types.WriteRequest, len(reqs))
	for i, r := range reqs {
		item, err := MarshalItem(r.Item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", r.Index, err)
		}
		out[i] = types.WriteRequest{PutRequest: &types.PutRequest{Item: item}}
	}
	return out, nil
}

// unprocessedRequests maps write requests the service handed back to the
// envelopes they were built from, in input order. sent must be
// WriteRequests(reqs). The service echoes items back unchanged, so items are
// compared by value.
func unprocessedRequests(reqs []domain.PutRequest, sent, unprocessed []types.WriteRequest) ([]domain.PutRequest, error) {
	used := make([]bool, len(sent))
	for _, u := range unprocessed {
		if u.PutRequest == nil {
			return nil, fmt.Errorf("%w: not a put request", ErrUnknownUnprocessed)
		}
		found := false
		for i, s := range sent {
			if used[i] || s.PutRequest == nil {
				continue
			}
			if reflect.DeepEqual(s.PutRequest.Item, u.PutRequest.Item) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return nil, ErrUnknownUnprocessed
		}
	}

	var out []domain.PutRequest
	for i, u := range used {
		if u {
			out = append(out, reqs[i])
		}
	}
	return out, nil
}

// count returns the number of requests across all tables in m.
func count(m map[string][]types.WriteRequest) int {
	n := 0
	for _, reqs := range m {
		n += len(reqs)
	}
	return n
}
