package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lexandro/fileindex-mcp/catalog"
)

// Results is an ordered set of matching records.
type Results []catalog.FileRecord

// cancelCheckInterval is how many rows are scanned between context checks.
const cancelCheckInterval = 1024

// matcherCacheSize bounds the compiled matchers kept for repeated queries.
const matcherCacheSize = 128

// Searcher scans the catalog for file names matching a query.
type Searcher struct {
	CatalogPath string
	Mode        Mode
	Logger      *slog.Logger

	cacheOnce sync.Once
	matchers  *lru.Cache[string, Matcher]
}

// Search compiles query and scans the catalog with it. An empty query
// returns an empty result without opening the catalog.
func (s *Searcher) Search(ctx context.Context, query string) (Results, error) {
	if query == "" {
		return Results{}, nil
	}

	matcher, err := s.compile(query)
	if err != nil {
		s.Logger.Error("query compile failed", "query", query, "error", err)
		return nil, err
	}
	return s.SearchMatcher(ctx, matcher)
}

// compile returns the matcher for query, reusing one compiled earlier.
func (s *Searcher) compile(query string) (Matcher, error) {
	s.cacheOnce.Do(func() {
		s.matchers, _ = lru.New[string, Matcher](matcherCacheSize)
	})
	if matcher, ok := s.matchers.Get(query); ok {
		return matcher, nil
	}
	matcher, err := Compile(query, s.Mode)
	if err != nil {
		return nil, err
	}
	s.matchers.Add(query, matcher)
	return matcher, nil
}

// SearchMatcher scans the whole catalog and collects, in catalog order, the
// records whose name satisfies matcher. It fails with
// catalog.ErrCatalogMissing when no catalog exists.
func (s *Searcher) SearchMatcher(ctx context.Context, matcher Matcher) (Results, error) {
	start := time.Now()

	records, err := catalog.ReadCatalog(s.CatalogPath)
	if err != nil {
		return nil, err
	}

	results := Results{}
	scanned := 0
	for record, err := range records {
		if err != nil {
			return nil, fmt.Errorf("scanning catalog: %w", err)
		}
		scanned++
		if scanned%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if matcher.Match(record.Name) {
			results = append(results, record)
		}
	}

	s.Logger.Debug("catalog scan complete",
		"matcher", fmt.Sprint(matcher),
		"scanned", scanned,
		"matches", len(results),
		"elapsed", time.Since(start),
	)
	return results, nil
}
