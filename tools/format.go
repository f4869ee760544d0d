package tools

import (
	"fmt"
	"strings"

	"github.com/lexandro/fileindex-mcp/query"
)

// FormatResults formats a result set as human-readable text, showing at most
// limit entries (limit <= 0 shows all).
func FormatResults(results query.Results, limit int, sortField query.Field, descending bool) string {
	if len(results) == 0 {
		return "No files matched."
	}

	shown := len(results)
	if limit > 0 && shown > limit {
		shown = limit
	}

	var builder strings.Builder
	if shown < len(results) {
		builder.WriteString(fmt.Sprintf("Found %d files (showing first %d)", len(results), shown))
	} else {
		builder.WriteString(fmt.Sprintf("Found %d files", len(results)))
	}
	if sortField != "" {
		direction := "ascending"
		if descending {
			direction = "descending"
		}
		builder.WriteString(fmt.Sprintf(", sorted by %s (%s)", sortField, direction))
	}
	builder.WriteString(":\n\n")

	for _, record := range results[:shown] {
		fileType := record.Extension
		if fileType == "" {
			fileType = "-"
		}
		builder.WriteString(fmt.Sprintf("  %s  [%s]  %s\n", record.Name, fileType, record.ModifiedAt))
		builder.WriteString(fmt.Sprintf("    %s\n", record.AbsolutePath))
	}

	return builder.String()
}
