package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lexandro/fileindex-mcp/filetype"
)

// Stats summarizes a catalog file.
type Stats struct {
	Records    int
	Categories map[string]int // filetype category -> record count
	SizeBytes  int64
	ModTime    time.Time // when the catalog was last replaced
}

// ReadStats scans the catalog once and returns its summary.
func ReadStats(path string) (Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Stats{}, ErrCatalogMissing
		}
		return Stats{}, fmt.Errorf("reading catalog info: %w", err)
	}

	r, err := Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()

	stats := Stats{
		Categories: make(map[string]int),
		SizeBytes:  info.Size(),
		ModTime:    info.ModTime(),
	}
	for {
		record, err := r.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		stats.Records++
		stats.Categories[filetype.Category(record.Extension)]++
	}
}
