package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lexandro/fileindex-mcp/index"
	"github.com/lexandro/fileindex-mcp/volume"
	"github.com/lexandro/fileindex-mcp/watcher"
)

// indexTracker starts index runs for the server and remembers the latest one.
// It is also the indexer's observer, so every finished run invalidates the
// cached catalog stats.
type indexTracker struct {
	ctx        context.Context
	indexer    *index.Indexer
	invalidate func()
	logger     *slog.Logger

	mu      sync.Mutex
	current *index.Task
}

func newIndexTracker(ctx context.Context, indexer *index.Indexer, invalidate func(), logger *slog.Logger) *indexTracker {
	tracker := &indexTracker{
		ctx:        ctx,
		indexer:    indexer,
		invalidate: invalidate,
		logger:     logger,
	}
	indexer.Observer = tracker
	return tracker
}

// Start launches a background run. A run already in flight is left alone;
// whichever finishes last replaces the catalog.
func (t *indexTracker) Start(exclude volume.ExclusionSet) *index.Task {
	task := t.indexer.Start(t.ctx, exclude)
	t.mu.Lock()
	t.current = task
	t.mu.Unlock()
	t.logger.Debug("index run requested", "run", task.ID())
	return task
}

// Current returns the most recently started run, or nil.
func (t *indexTracker) Current() *index.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Running reports whether the most recent run is still in flight.
func (t *indexTracker) Running() bool {
	task := t.Current()
	return task != nil && task.Running()
}

// CancelRunning stops the most recent run if it has not finished.
func (t *indexTracker) CancelRunning() {
	if task := t.Current(); task != nil && task.Running() {
		task.Cancel()
		task.Wait()
	}
}

func (t *indexTracker) IndexStarted(volumes []volume.Volume) {
	mountpoints := make([]string, len(volumes))
	for i, v := range volumes {
		mountpoints[i] = v.Mountpoint
	}
	t.logger.Info("index run started", "volumes", mountpoints)
}

func (t *indexTracker) IndexFinished(result index.Result, err error) {
	switch {
	case index.IsCancelled(err):
		t.logger.Info("index run cancelled")
	case err != nil:
		t.logger.Error("index run failed", "error", err)
	default:
		t.logger.Info("index run finished", "files", result.Records, "duration", result.Duration)
	}
	t.invalidate()
}

// handleCatalogEvents invalidates cached catalog stats whenever the catalog
// file changes on disk, including replacement by another process.
func handleCatalogEvents(catalogWatcher *watcher.Watcher, invalidate func(), logger *slog.Logger) {
	for events := range catalogWatcher.Events() {
		for _, event := range events {
			logger.Info("catalog changed on disk", "path", event.Path, "op", event.Op)
		}
		invalidate()
	}
}
