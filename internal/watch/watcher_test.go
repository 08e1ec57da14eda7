package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank_transactions_data.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(path, 50*time.Millisecond, nil)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) { runs.Add(1) })
	}()

	// Give the watcher time to register the directory
	time.Sleep(200 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`[{"a": 1}]`), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "file.json"), 0, nil)
	if err := w.Run(context.Background(), func(context.Context) {}); err == nil {
		t.Errorf("Run() error = nil, want error for missing directory")
	}
}
