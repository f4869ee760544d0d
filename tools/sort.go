package tools

import (
	"context"
	"log/slog"

	"github.com/lexandro/fileindex-mcp/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SortArgs defines the input parameters for the fileindex_sort tool.
type SortArgs struct {
	Field      string `json:"field" jsonschema:"Column to sort by: name, type, modified or path. Repeating the current column reverses the order"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to display (default 50)"`
}

// SortHandler re-sorts the last search's results without reading the catalog.
type SortHandler struct {
	Session    *query.Session
	MaxResults int
	Logger     *slog.Logger
}

// Handle processes a fileindex_sort request.
func (h *SortHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SortArgs) (*mcp.CallToolResult, any, error) {
	field, err := query.ParseField(args.Field)
	if err != nil {
		return errorResult("Sort error", err), nil, nil
	}

	queryText, current := h.Session.Results()
	if len(current) == 0 {
		return textResult("No results to sort. Run fileindex_search first."), nil, nil
	}

	sorted, descending := h.Session.Sort(field)
	h.Logger.Info("fileindex_sort", "query", queryText, "field", field, "descending", descending)

	limit := args.MaxResults
	if limit <= 0 {
		limit = h.MaxResults
	}
	return textResult(FormatResults(sorted, limit, field, descending)), nil, nil
}
