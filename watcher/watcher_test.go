package watcher

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func Test_Watcher_ReportsReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "file_index.csv")

	w, err := NewWatcher(target, testInterval, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()
	go w.Start()

	// Unrelated files in the same directory are not reported
	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644)

	tmp := filepath.Join(dir, ".file_index.csv-1.tmp")
	os.WriteFile(tmp, []byte("Filename\n"), 0644)
	if err := os.Rename(tmp, target); err != nil {
		t.Fatal(err)
	}

	select {
	case batch := <-w.Events():
		if len(batch) != 1 {
			t.Fatalf("expected 1 event, got %d: %v", len(batch), batch)
		}
		if batch[0].Path != target {
			t.Errorf("expected event for %s, got %s", target, batch[0].Path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for catalog event")
	}
}

func Test_NewWatcher_CreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "missing", "file_index.csv")

	w, err := NewWatcher(target, testInterval, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Errorf("expected directory to exist: %v", err)
	}
}

func Test_Watcher_CloseEndsEvents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "file_index.csv")
	w, err := NewWatcher(target, testInterval, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	go w.Start()

	drained := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(drained)
	}()

	w.Close()
	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("events channel was not closed by Close")
	}
}
