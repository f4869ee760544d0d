package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lexandro/fileindex-mcp/catalog"
	"github.com/lexandro/fileindex-mcp/volume"
)

// Result describes a completed index run.
type Result struct {
	Volumes       []string // Mountpoints walked, in volume-list order
	FailedVolumes []string // Mountpoints whose root could not be opened
	Records       int
	Duration      time.Duration
}

// Observer is notified when an index run starts and stops.
type Observer interface {
	IndexStarted(volumes []volume.Volume)
	IndexFinished(result Result, err error)
}

// MatcherFunc builds the ignore rules for one volume root. It may return nil.
type MatcherFunc func(root string) IgnoreChecker

// Indexer rebuilds the catalog from every non-excluded volume.
type Indexer struct {
	CatalogPath string
	Volumes     volume.Lister
	NewMatcher  MatcherFunc // nil disables ignore rules
	Observer    Observer    // optional
	Logger      *slog.Logger
}

// Run performs one full index run and blocks until it completes. The
// previous catalog is replaced only if the run succeeds.
func (ix *Indexer) Run(ctx context.Context, exclude volume.ExclusionSet) (Result, error) {
	return ix.run(ctx, uuid.NewString(), exclude, nil)
}

// Start launches an index run in the background and returns its handle.
func (ix *Indexer) Start(ctx context.Context, exclude volume.ExclusionSet) *Task {
	ctx, cancel := context.WithCancel(ctx)
	task := &Task{
		id:        uuid.NewString(),
		cancel:    cancel,
		done:      make(chan struct{}),
		startedAt: time.Now(),
	}

	go func() {
		defer close(task.done)
		defer cancel()
		task.result, task.err = ix.run(ctx, task.id, exclude, &task.progress)
	}()

	return task
}

func (ix *Indexer) run(ctx context.Context, runID string, exclude volume.ExclusionSet, progress *atomic.Int64) (result Result, err error) {
	start := time.Now()
	logger := ix.Logger.With("run", runID)

	volumes, err := ix.Volumes.ListVolumes(ctx)
	if err != nil {
		logger.Error("volume enumeration failed", "error", err)
		return Result{}, err
	}
	mountpoints := mountpointSet(volumes)
	volumes = exclude.Filter(volumes)

	if ix.Observer != nil {
		ix.Observer.IndexStarted(volumes)
		defer func() { ix.Observer.IndexFinished(result, err) }()
	}

	writer, err := catalog.NewWriter(ix.CatalogPath)
	if err != nil {
		return Result{}, err
	}

	logger.Info("indexing started", "volumes", len(volumes), "catalog", ix.CatalogPath)

	for _, v := range volumes {
		var matcher IgnoreChecker
		if ix.NewMatcher != nil {
			matcher = ix.NewMatcher(v.Mountpoint)
		}
		checker := &runIgnoreChecker{
			inner:       matcher,
			tempPath:    writer.TempPath(),
			root:        absPath(v.Mountpoint),
			mountpoints: mountpoints,
		}

		records, walkErr := Walk(ctx, v.Mountpoint, checker, logger)
		if walkErr != nil {
			logger.Warn("skipping volume", "volume", v.ID(), "error", walkErr)
			result.FailedVolumes = append(result.FailedVolumes, v.Mountpoint)
			continue
		}

		before := writer.Count()
		for record := range records {
			if err := writer.Write(record); err != nil {
				writer.Abort()
				return Result{}, err
			}
			if progress != nil {
				progress.Store(int64(writer.Count()))
			}
		}
		if ctx.Err() != nil {
			break
		}
		result.Volumes = append(result.Volumes, v.Mountpoint)
		logger.Info("volume indexed", "volume", v.ID(), "files", writer.Count()-before)
	}

	if err := ctx.Err(); err != nil {
		writer.Abort()
		logger.Warn("indexing cancelled, previous catalog kept", "error", err)
		return Result{}, fmt.Errorf("indexing cancelled: %w", err)
	}

	if err := writer.Commit(); err != nil {
		return Result{}, err
	}

	result.Records = writer.Count()
	result.Duration = time.Since(start)
	logger.Info("indexing complete",
		"files", result.Records,
		"volumes", len(result.Volumes),
		"failedVolumes", len(result.FailedVolumes),
		"duration", result.Duration,
	)
	return result, nil
}

// runIgnoreChecker adds the in-progress catalog file and the mountpoints of
// the other listed volumes to the volume's rules. A nested volume is walked
// from its own root, or not at all when it is excluded.
type runIgnoreChecker struct {
	inner       IgnoreChecker
	tempPath    string
	root        string
	mountpoints map[string]struct{}
}

func (c *runIgnoreChecker) ShouldIgnoreDir(path string) bool {
	if path != c.root {
		if _, ok := c.mountpoints[path]; ok {
			return true
		}
	}
	return c.inner != nil && c.inner.ShouldIgnoreDir(path)
}

func (c *runIgnoreChecker) ShouldIgnore(path string) bool {
	if path == c.tempPath {
		return true
	}
	return c.inner != nil && c.inner.ShouldIgnore(path)
}

// mountpointSet returns the absolute mountpoints of every listed volume,
// excluded ones included.
func mountpointSet(volumes []volume.Volume) map[string]struct{} {
	set := make(map[string]struct{}, len(volumes))
	for _, v := range volumes {
		set[absPath(v.Mountpoint)] = struct{}{}
	}
	return set
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Task is a handle on a background index run.
type Task struct {
	id        string
	cancel    context.CancelFunc
	done      chan struct{}
	progress  atomic.Int64
	startedAt time.Time

	result Result
	err    error
}

// ID identifies the run in logs.
func (t *Task) ID() string {
	return t.id
}

// Done is closed when the run finishes, successfully or not.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the run finishes and returns its outcome.
func (t *Task) Wait() (Result, error) {
	<-t.done
	return t.result, t.err
}

// Cancel stops the run. The previous catalog is kept.
func (t *Task) Cancel() {
	t.cancel()
}

// Running reports whether the run is still in progress.
func (t *Task) Running() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Progress returns the number of records written so far.
func (t *Task) Progress() int64 {
	return t.progress.Load()
}

// StartedAt returns when the run was launched.
func (t *Task) StartedAt() time.Time {
	return t.startedAt
}

// IsCancelled reports whether err came from a cancelled run.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
