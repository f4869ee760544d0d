package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/fileindex-mcp/index"
	"github.com/lexandro/fileindex-mcp/volume"
)

// reindexStarter is the part of indexTracker the periodic loop needs.
type reindexStarter interface {
	Start(exclude volume.ExclusionSet) *index.Task
	Running() bool
}

// runPeriodicReindex starts a full index run at every tick until ctx is done.
// A tick that arrives while a run is still in flight is skipped.
func runPeriodicReindex(
	ctx context.Context,
	interval time.Duration,
	starter reindexStarter,
	exclude volume.ExclusionSet,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic reindex started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("periodic reindex stopped")
			return
		case <-ticker.C:
			if !tickReindex(starter, exclude, logger) {
				logger.Debug("periodic reindex skipped, previous run still in progress")
			}
		}
	}
}

// tickReindex starts one run unless another is in flight. It reports whether
// a run was started.
func tickReindex(starter reindexStarter, exclude volume.ExclusionSet, logger *slog.Logger) bool {
	if starter.Running() {
		return false
	}
	starter.Start(exclude)
	logger.Debug("periodic reindex triggered")
	return true
}
