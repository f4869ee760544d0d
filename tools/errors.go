package tools

import (
	"errors"
	"fmt"

	"github.com/lexandro/fileindex-mcp/catalog"
	"github.com/lexandro/fileindex-mcp/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// errorResult builds an IsError tool result with a message the user can act on.
func errorResult(prefix string, err error) *mcp.CallToolResult {
	var text string
	switch {
	case errors.Is(err, catalog.ErrCatalogMissing):
		text = "Index not found. Please run indexing first (fileindex_reindex)."
	case errors.Is(err, query.ErrPatternCompile):
		text = prefix + ": internal error, the query could not be compiled"
	default:
		text = fmt.Sprintf("%s: %v", prefix, err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
