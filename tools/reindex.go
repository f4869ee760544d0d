package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lexandro/fileindex-mcp/index"
	"github.com/lexandro/fileindex-mcp/volume"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReindexArgs defines the input parameters for the fileindex_reindex tool.
type ReindexArgs struct {
	ExcludeVolumes []string `json:"excludeVolumes,omitempty" jsonschema:"Volumes to skip, by mountpoint or device (see fileindex_volumes)"`
	Wait           bool     `json:"wait,omitempty" jsonschema:"Block until indexing finishes instead of returning immediately"`
}

// ReindexFunc starts a full index run. It is provided by main.go to avoid
// circular dependencies.
type ReindexFunc func(exclude volume.ExclusionSet) *index.Task

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	DoReindex      ReindexFunc
	DefaultExclude []string // Always excluded, from -exclude-volume
	Logger         *slog.Logger
}

// Handle processes a fileindex_reindex request.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	excluded := append(append([]string{}, h.DefaultExclude...), args.ExcludeVolumes...)
	exclude := volume.NewExclusionSet(excluded...)

	h.Logger.Info("fileindex_reindex started", "exclude", excluded, "wait", args.Wait)
	task := h.DoReindex(exclude)

	if !args.Wait {
		return textResult(fmt.Sprintf("Reindex started in the background (excluded: %s). Use fileindex_status to follow progress.",
			formatExcluded(excluded))), nil, nil
	}

	select {
	case <-task.Done():
	case <-ctx.Done():
		return textResult(fmt.Sprintf("Reindex still running (%d files so far); it continues in the background.",
			task.Progress())), nil, nil
	}

	result, err := task.Wait()
	if err != nil {
		h.Logger.Error("fileindex_reindex failed", "error", err)
		return errorResult("Reindex error", err), nil, nil
	}

	output := fmt.Sprintf("Reindex complete: %d files from %d volumes in %s",
		result.Records, len(result.Volumes), result.Duration.Round(time.Millisecond))
	if len(result.FailedVolumes) > 0 {
		output += fmt.Sprintf("\nUnreadable volumes skipped: %s", strings.Join(result.FailedVolumes, ", "))
	}
	return textResult(output), nil, nil
}

func formatExcluded(excluded []string) string {
	if len(excluded) == 0 {
		return "none"
	}
	return strings.Join(excluded, ", ")
}
