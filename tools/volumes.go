package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lexandro/fileindex-mcp/volume"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// VolumesArgs defines the input parameters for the fileindex_volumes tool (none required).
type VolumesArgs struct{}

// VolumesHandler lists the volumes an index run would walk.
type VolumesHandler struct {
	Lister         volume.Lister
	DefaultExclude []string
	Logger         *slog.Logger
}

// Handle processes a fileindex_volumes request.
func (h *VolumesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args VolumesArgs) (*mcp.CallToolResult, any, error) {
	volumes, err := h.Lister.ListVolumes(ctx)
	if err != nil {
		h.Logger.Error("fileindex_volumes failed", "error", err)
		return errorResult("Volume error", err), nil, nil
	}
	return textResult(FormatVolumes(volumes, volume.NewExclusionSet(h.DefaultExclude...))), nil, nil
}

// FormatVolumes lists volumes one per line, marking excluded ones.
func FormatVolumes(volumes []volume.Volume, exclude volume.ExclusionSet) string {
	if len(volumes) == 0 {
		return "No volumes found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d volumes:\n\n", len(volumes)))
	for _, v := range volumes {
		marker := ""
		if exclude.Excludes(v) {
			marker = "  (excluded)"
		}
		builder.WriteString(fmt.Sprintf("  %-24s %-16s %s%s\n", v.Mountpoint, v.Device, v.FSType, marker))
	}
	return builder.String()
}
