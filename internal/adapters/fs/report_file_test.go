package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/txnload/internal/domain"
)

func TestReportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "last_run.json")
	repo := NewReportFileRepository(path)
	ctx := context.Background()

	started := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	expected := domain.RunReport{
		RunID:        "run-1",
		File:         "bank_transactions_data.json",
		Table:        "Transaction_Information",
		StartedAt:    started,
		FinishedAt:   started.Add(time.Second),
		Records:      30,
		TotalBatches: 2,
		Batches: []domain.BatchResult{
			{Number: 1, Status: domain.BatchWritten, Requests: 25, Calls: 1},
			{Number: 2, Status: domain.BatchFailed, Requests: 5, Calls: 1, Dropped: []int{25, 26, 27, 28, 29}, Error: "boom"},
		},
	}

	if err := repo.Save(ctx, expected); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got.RunID != expected.RunID || got.Records != 30 || len(got.Batches) != 2 {
		t.Fatalf("Load() = %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.Batches[1].Status != domain.BatchFailed || len(got.Batches[1].Dropped) != 5 {
		t.Errorf("batch 2 = %+v", got.Batches[1])
	}
	if got.Written() != 25 {
		t.Errorf("Written() = %d, want 25", got.Written())
	}
}

func TestReportLoad_Missing(t *testing.T) {
	repo := NewReportFileRepository(filepath.Join(t.TempDir(), "none.json"))
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got.RunID != "" || len(got.Batches) != 0 {
		t.Errorf("Load() = %+v, want empty report", got)
	}
}

func TestReportLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewReportFileRepository(path).Load(context.Background()); err == nil {
		t.Errorf("Load() error = nil, want error")
	}
}
