package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/fileindex-mcp/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgs defines the input parameters for the fileindex_search tool.
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"File name query. Letters and digits must appear in order; any other characters match anything (e.g. 'my doc' finds MyDoc2023.pdf)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to display (default 50)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Searcher   *query.Searcher
	Session    *query.Session
	MaxResults int
	Logger     *slog.Logger
}

// Handle processes a fileindex_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	if args.Query == "" {
		return textResult("No files matched."), nil, nil
	}

	start := time.Now()
	results, err := h.Searcher.Search(ctx, args.Query)
	if err != nil {
		h.Logger.Error("fileindex_search failed", "query", args.Query, "error", err)
		return errorResult("Search error", err), nil, nil
	}
	h.Session.SetResults(args.Query, results)

	h.Logger.Info("fileindex_search",
		"query", args.Query,
		"results", len(results),
		"elapsed", time.Since(start),
	)

	limit := args.MaxResults
	if limit <= 0 {
		limit = h.MaxResults
	}
	return textResult(FormatResults(results, limit, "", false)), nil, nil
}
