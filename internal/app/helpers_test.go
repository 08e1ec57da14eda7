package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bft-labs/txnload/internal/domain"
	"github.com/bft-labs/txnload/internal/format"
	"github.com/bft-labs/txnload/pkg/log"
)

const testTable = "Transaction_Information"

// fakeTables records every Write call and answers through respond.
type fakeTables struct {
	mu      sync.Mutex
	calls   [][]domain.PutRequest
	tables  []string
	respond func(call int, reqs []domain.PutRequest) ([]domain.PutRequest, error)
}

func (f *fakeTables) Write(ctx context.Context, table string, reqs []domain.PutRequest) ([]domain.PutRequest, error) {
	f.mu.Lock()
	f.calls = append(f.calls, reqs)
	f.tables = append(f.tables, table)
	n := len(f.calls)
	f.mu.Unlock()

	if f.respond == nil {
		return nil, nil
	}
	return f.respond(n, reqs)
}

func (f *fakeTables) Calls() [][]domain.PutRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]domain.PutRequest{}, f.calls...)
}

// transactions builds n formatted put requests with distinct IDs.
func transactions(t *testing.T, n int) []domain.PutRequest {
	t.Helper()
	recs := make([]domain.Record, n)
	for i := range recs {
		recs[i] = domain.Record{
			{Name: "TransactionID", Value: domain.String(fmt.Sprintf("TX%06d", i+1))},
			{Name: "TransactionAmount", Value: domain.Number(json.Number(fmt.Sprintf("%d.25", i)))},
		}
	}
	reqs, err := format.PutRequests(recs)
	if err != nil {
		t.Fatalf("PutRequests: %v", err)
	}
	return reqs
}

// jsonLogger returns a logger writing JSON lines into the returned buffer.
func jsonLogger(t *testing.T) (log.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := log.New(log.Options{Level: "debug", Format: log.FormatJSON, Out: &buf})
	if err != nil {
		t.Fatalf("log.New: %v", err)
	}
	return logger, &buf
}

type logEntry map[string]interface{}

func (e logEntry) int(key string) int {
	f, _ := e[key].(float64)
	return int(f)
}

func entries(t *testing.T, buf *bytes.Buffer) []logEntry {
	t.Helper()
	var out []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("unmarshal log line %q: %v", line, err)
		}
		out = append(out, e)
	}
	return out
}

func withMessage(es []logEntry, msg string) []logEntry {
	var out []logEntry
	for _, e := range es {
		if e["message"] == msg {
			out = append(out, e)
		}
	}
	return out
}
