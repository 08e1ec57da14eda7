// Package format turns loaded records into put requests ready for storage.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bft-labs/txnload/internal/domain"
)

// Item returns a copy of rec with every number, at any depth, replaced by an
// exact decimal parsed from its literal text. Other values are copied as is.
func Item(rec domain.Record) (domain.Record, error) {
	out := make(domain.Record, len(rec))
	for i, f := range rec {
		v, err := value(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out[i] = domain.Field{Name: f.Name, Value: v}
	}
	return out, nil
}

func value(v domain.Value) (domain.Value, error) {
	switch v.Kind {
	case domain.KindNumber:
		if v.Exact {
			return v, nil
		}
		d, err := decimal.NewFromString(v.Number.String())
		if err != nil {
			return domain.Value{}, fmt.Errorf("%w: number %.40q: %w", domain.ErrParse, v.Number, err)
		}
		if err := checkRange(d); err != nil {
			return domain.Value{}, fmt.Errorf("%w: number %.40q: %w", domain.ErrParse, v.Number, err)
		}
		if d.IsZero() {
			d = decimal.Zero
		}
		return domain.Decimal(d), nil
	case domain.KindList:
		list := make([]domain.Value, len(v.List))
		for i, elem := range v.List {
			fv, err := value(elem)
			if err != nil {
				return domain.Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			list[i] = fv
		}
		return domain.List(list...), nil
	case domain.KindMap:
		m, err := Item(v.Map)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.Map(m), nil
	default:
		return v, nil
	}
}

// Limits of a DynamoDB number attribute.
const (
	MaxSignificantDigits = 38
	MaxMagnitude         = 125
	MinMagnitude         = -130
)

var (
	errTooPrecise = errors.New("more than 38 significant digits")
	errOutOfRange = errors.New("magnitude outside 1E-130 to 1E+125")
)

// checkRange rejects decimals DynamoDB cannot store. It works on the
// coefficient and exponent so the value is never expanded to full text.
func checkRange(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	coef := d.Abs().Coefficient().String()
	sig := strings.TrimRight(coef, "0")
	if len(sig) > MaxSignificantDigits {
		return errTooPrecise
	}
	// power of ten of the leading digit
	magnitude := int64(d.Exponent()) + int64(len(coef)) - 1
	if magnitude > MaxMagnitude || magnitude < MinMagnitude {
		return errOutOfRange
	}
	return nil
}

// PutRequest formats rec and wraps it as an insert for the record at index.
func PutRequest(index int, rec domain.Record) (domain.PutRequest, error) {
	item, err := Item(rec)
	if err != nil {
		return domain.PutRequest{}, fmt.Errorf("record %d: %w", index, err)
	}
	return domain.PutRequest{Index: index, Item: item}, nil
}

// PutRequests formats every record in order.
func PutRequests(recs []domain.Record) ([]domain.PutRequest, error) {
	out := make([]domain.PutRequest, 0, len(recs))
	for i, rec := range recs {
		req, err := PutRequest(i, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}
