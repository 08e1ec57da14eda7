// Package loader reads transaction records from a JSON file.
//
// The file must hold a single JSON array of objects. Records come back in
// file order with their keys in file order, and numbers keep their literal
// text so nothing is rounded before formatting.
package loader

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/bft-labs/txnload/internal/domain"
)

// Load reads and parses the records stored at path.
// A missing file wraps domain.ErrFileNotFound; malformed content wraps
// domain.ErrParse.
func Load(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", domain.ErrFileNotFound, err)
		}
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// Decode parses a JSON array of objects from r.
func Decode(r io.Reader) ([]domain.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0)
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		rec, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data at offset %d", domain.ErrParse, dec.InputOffset())
	}
	return records, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return parseError(dec, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q at offset %d, got %v", domain.ErrParse, want, dec.InputOffset(), tok)
	}
	return nil
}

// decodeObject reads the members of an object whose '{' was already consumed.
func decodeObject(dec *json.Decoder) (domain.Record, error) {
	rec := domain.Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, parseError(dec, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected object key at offset %d", domain.ErrParse, dec.InputOffset())
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		rec = rec.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, parseError(dec, err)
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (domain.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return domain.Value{}, parseError(dec, err)
	}

	switch t := tok.(type) {
	case nil:
		return domain.Null(), nil
	case string:
		return domain.String(t), nil
	case bool:
		return domain.Bool(t), nil
	case json.Number:
		return domain.Number(t), nil
	case json.Delim:
		switch t {
		case '{':
			m, err := decodeObject(dec)
			if err != nil {
				return domain.Value{}, err
			}
			return domain.Map(m), nil
		case '[':
			list := make([]domain.Value, 0)
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return domain.Value{}, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return domain.Value{}, parseError(dec, err)
			}
			return domain.List(list...), nil
		}
	}
	return domain.Value{}, fmt.Errorf("%w: unexpected token %v at offset %d", domain.ErrParse, tok, dec.InputOffset())
}

func parseError(dec *json.Decoder, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w at offset %d: %w", domain.ErrParse, dec.InputOffset(), err)
}
