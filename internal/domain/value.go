package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindNumber
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a single JSON value from a transaction record.
//
// Numbers keep the literal text they were read with. Once formatted they
// also carry an exact decimal, and Exact reports true.
type Value struct {
	Kind Kind

	Str  string
	Bool bool

	Number  json.Number
	Decimal decimal.Decimal
	Exact   bool

	List []Value
	Map  Record
}

// Null returns a null value.
func Null() Value { return Value{Kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number returns a number value holding the literal text n.
func Number(n json.Number) Value { return Value{Kind: KindNumber, Number: n} }

// Decimal returns a formatted number value.
func Decimal(d decimal.Decimal) Value {
	return Value{Kind: KindNumber, Number: json.Number(d.String()), Decimal: d, Exact: true}
}

// List returns a list value.
func List(vs ...Value) Value { return Value{Kind: KindList, List: vs} }

// Map returns a nested map value.
func Map(r Record) Value { return Value{Kind: KindMap, Map: r} }

// IsNumeric reports whether v is a number.
func (v Value) IsNumeric() bool { return v.Kind == KindNumber }

// Equal reports whether v and o hold the same variant and content.
// Formatted numbers compare by decimal value; unformatted numbers by text.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return v.Str == o.Str
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		if v.Exact && o.Exact {
			return v.Decimal.Equal(o.Decimal)
		}
		return v.Exact == o.Exact && v.Number == o.Number
	case KindList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.Map.Equal(o.Map)
	}
	return false
}
