package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/fileindex-mcp/index"
	"github.com/lexandro/fileindex-mcp/query"
	"github.com/lexandro/fileindex-mcp/volume"
)

func Test_FormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Seconds_zero", 0, "0s"},
		{"Seconds_59", 59 * time.Second, "59s"},
		{"Minutes_1m0s", 60 * time.Second, "1m0s"},
		{"Minutes_5m30s", 5*time.Minute + 30*time.Second, "5m30s"},
		{"Hours_1h30m", 90 * time.Minute, "1h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

func Test_StatusHandler_Handle(t *testing.T) {
	catalogPath := writeTestCatalog(t, "/a/main.go", "/a/photo.jpg", "/a/other.go")
	session := &query.Session{}
	session.SetResults("main", query.Results{{Name: "main.go"}})
	session.Sort(query.FieldName)

	h := &StatusHandler{
		CatalogPath: catalogPath,
		Session:     session,
		StartTime:   time.Now(),
		Logger:      testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	checks := []string{
		"fileindex-mcp Status",
		catalogPath,
		"Indexed files: 3",
		`Last search: "main" (1 results), sorted by name (ascending)`,
		"Code",
		"2 files",
		"Image",
	}
	for _, check := range checks {
		if !strings.Contains(text, check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, text)
		}
	}
}

func Test_StatusHandler_MissingCatalog(t *testing.T) {
	h := &StatusHandler{
		CatalogPath: filepath.Join(t.TempDir(), "missing.csv"),
		StartTime:   time.Now(),
		Logger:      testLogger(),
	}

	result, _, _ := h.Handle(context.Background(), nil, StatusArgs{})
	if result.IsError {
		t.Fatal("expected status to succeed without a catalog")
	}
	if text := resultText(t, result); !strings.Contains(text, "no catalog yet") {
		t.Errorf("expected missing catalog note, got:\n%s", text)
	}
}

func Test_StatusHandler_CacheInvalidate(t *testing.T) {
	catalogPath := writeTestCatalog(t, "/a/one.txt")
	h := &StatusHandler{CatalogPath: catalogPath, StartTime: time.Now(), Logger: testLogger()}

	if count, err := h.IndexedCount(); err != nil || count != 1 {
		t.Fatalf("expected 1 record, got %d (%v)", count, err)
	}

	replacement := writeTestCatalog(t, "/b/one.txt", "/b/two.txt")
	data, _ := os.ReadFile(replacement)
	os.WriteFile(catalogPath, data, 0644)

	if count, _ := h.IndexedCount(); count != 1 {
		t.Errorf("expected cached count 1 before invalidation, got %d", count)
	}
	h.Invalidate()
	if count, _ := h.IndexedCount(); count != 2 {
		t.Errorf("expected 2 records after invalidation, got %d", count)
	}
}

func Test_StatusHandler_ReportsTask(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "f.txt"), []byte("x"), 0644)
	indexer := newTestIndexer(t, staticLister{volumes: []volume.Volume{{Mountpoint: root}}})
	task := indexer.Start(context.Background(), nil)
	task.Wait()

	h := &StatusHandler{
		CatalogPath: indexer.CatalogPath,
		CurrentTask: func() *index.Task { return task },
		StartTime:   time.Now(),
		Logger:      testLogger(),
	}

	result, _, _ := h.Handle(context.Background(), nil, StatusArgs{})
	if text := resultText(t, result); !strings.Contains(text, "Last index run: 1 files from 1 volumes") {
		t.Errorf("expected last run summary, got:\n%s", text)
	}
}
