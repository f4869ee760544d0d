package tools

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lexandro/fileindex-mcp/catalog"
	"github.com/lexandro/fileindex-mcp/index"
	"github.com/lexandro/fileindex-mcp/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the fileindex_status tool (none required).
type StatusArgs struct{}

// StatusHandler reports on the catalog, the index run and the search session.
// Catalog stats are cached until Invalidate is called.
type StatusHandler struct {
	CatalogPath string
	CurrentTask func() *index.Task // optional; the latest index run, nil if none
	Session     *query.Session     // optional
	StartTime   time.Time
	Logger      *slog.Logger

	mu    sync.Mutex
	stats *catalog.Stats
}

// Invalidate drops the cached catalog stats so the next request re-reads them.
func (h *StatusHandler) Invalidate() {
	h.mu.Lock()
	h.stats = nil
	h.mu.Unlock()
}

// IndexedCount returns the number of records in the catalog, using the cache
// when it is populated.
func (h *StatusHandler) IndexedCount() (int, error) {
	stats, err := h.catalogStats()
	if err != nil {
		return 0, err
	}
	return stats.Records, nil
}

func (h *StatusHandler) catalogStats() (catalog.Stats, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stats != nil {
		return *h.stats, nil
	}
	stats, err := catalog.ReadStats(h.CatalogPath)
	if err != nil {
		return catalog.Stats{}, err
	}
	h.stats = &stats
	return stats, nil
}

// Handle processes a fileindex_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	uptime := time.Since(h.StartTime)
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	builder.WriteString("=== fileindex-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Catalog: %s\n", h.CatalogPath))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		humanize.Bytes(memStats.Alloc),
		humanize.Bytes(memStats.HeapAlloc),
	))

	stats, err := h.catalogStats()
	switch {
	case errors.Is(err, catalog.ErrCatalogMissing):
		builder.WriteString("Indexed files: none (no catalog yet, run fileindex_reindex)\n")
	case err != nil:
		h.Logger.Warn("reading catalog stats failed", "error", err)
		builder.WriteString(fmt.Sprintf("Indexed files: unknown (%v)\n", err))
	default:
		builder.WriteString(fmt.Sprintf("Indexed files: %s\n", humanize.Comma(int64(stats.Records))))
		builder.WriteString(fmt.Sprintf("Catalog size: %s\n", humanize.Bytes(uint64(stats.SizeBytes))))
		builder.WriteString(fmt.Sprintf("Last indexed: %s (%s)\n",
			stats.ModTime.Format(catalog.TimeLayout), humanize.Time(stats.ModTime)))
	}

	h.writeTask(&builder)
	h.writeSession(&builder)

	if len(stats.Categories) > 0 {
		builder.WriteString("\nFile types:\n")
		type categoryEntry struct {
			category string
			count    int
		}
		entries := make([]categoryEntry, 0, len(stats.Categories))
		for category, count := range stats.Categories {
			entries = append(entries, categoryEntry{category, count})
		}
		slices.SortFunc(entries, func(a, b categoryEntry) int {
			if c := cmp.Compare(b.count, a.count); c != 0 {
				return c
			}
			return strings.Compare(a.category, b.category)
		})
		for _, entry := range entries {
			builder.WriteString(fmt.Sprintf("  %-12s %s files\n", entry.category, humanize.Comma(int64(entry.count))))
		}
	}

	h.Logger.Info("fileindex_status", "files", stats.Records, "memory", memStats.Alloc, "uptime", uptime)

	return textResult(builder.String()), nil, nil
}

func (h *StatusHandler) writeTask(builder *strings.Builder) {
	if h.CurrentTask == nil {
		return
	}
	task := h.CurrentTask()
	if task == nil {
		return
	}

	if task.Running() {
		builder.WriteString(fmt.Sprintf("Indexing: running since %s, %s files so far\n",
			humanize.Time(task.StartedAt()), humanize.Comma(task.Progress())))
		return
	}

	result, err := task.Wait()
	switch {
	case index.IsCancelled(err):
		builder.WriteString("Last index run: cancelled, previous catalog kept\n")
	case err != nil:
		builder.WriteString(fmt.Sprintf("Last index run: failed (%v)\n", err))
	default:
		builder.WriteString(fmt.Sprintf("Last index run: %s files from %d volumes in %s\n",
			humanize.Comma(int64(result.Records)), len(result.Volumes), result.Duration.Round(time.Millisecond)))
		if len(result.FailedVolumes) > 0 {
			builder.WriteString(fmt.Sprintf("Unreadable volumes: %s\n", strings.Join(result.FailedVolumes, ", ")))
		}
	}
}

func (h *StatusHandler) writeSession(builder *strings.Builder) {
	if h.Session == nil {
		return
	}
	queryText, results := h.Session.Results()
	if queryText == "" {
		return
	}
	builder.WriteString(fmt.Sprintf("Last search: %q (%d results)", queryText, len(results)))
	if field, descending := h.Session.SortState(); field != "" {
		direction := "ascending"
		if descending {
			direction = "descending"
		}
		builder.WriteString(fmt.Sprintf(", sorted by %s (%s)", field, direction))
	}
	builder.WriteString("\n")
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
