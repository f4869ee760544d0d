package server

import (
	"github.com/lexandro/fileindex-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handlers bundles the tool handlers the server exposes.
type Handlers struct {
	Search  *tools.SearchHandler
	Sort    *tools.SortHandler
	Reindex *tools.ReindexHandler
	Status  *tools.StatusHandler
	Volumes *tools.VolumesHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers, version string) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fileindex-mcp",
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: `This server finds files by name across every mounted volume using a prebuilt catalog. It is much faster than find or a recursive Glob over the whole disk.

- Use fileindex_search to locate files anywhere on the machine by (partial) name
- Use fileindex_sort to reorder the last search's results without searching again
- If a search reports that the index is missing, run fileindex_reindex with wait=true first
- Use fileindex_status to see how large and how fresh the catalog is`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "fileindex_search",
		Description: `Find files by name across all indexed volumes.

Matching rules:
  - Case-insensitive
  - Letters and digits in the query must appear in the file name in the same order
  - Spaces, punctuation and other symbols in the query match any run of characters
  - Only the file name is matched, never the directory path

Examples:
  - "my doc" finds "MyDoc2023.pdf" and "my_documents.txt"
  - "report.pdf" finds "report_final.pdf" and "report-2023.pdf"
  - "img 2024" finds "IMG_20240301_120000.jpg"`,
	}, handlers.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "fileindex_sort",
		Description: `Sort the results of the last fileindex_search by one column: name, type, modified or path.
Sorting by the same column again reverses the order. The catalog is not read again.`,
	}, handlers.Sort.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "fileindex_reindex",
		Description: "Rebuild the file catalog by walking every mounted volume. The previous catalog stays searchable until the new one is complete. Set wait=true to block until it finishes.",
	}, handlers.Reindex.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "fileindex_status",
		Description: "Show catalog status: indexed file count, file type breakdown, last index time, running index progress, memory usage and uptime.",
	}, handlers.Status.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "fileindex_volumes",
		Description: "List the mounted volumes that indexing would walk, marking the ones excluded by configuration.",
	}, handlers.Volumes.Handle)

	return mcpServer
}
