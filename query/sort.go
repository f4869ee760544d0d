package query

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/lexandro/fileindex-mcp/catalog"
)

// Field names a displayed result column.
type Field string

const (
	FieldName     Field = "name"
	FieldType     Field = "type"
	FieldModified Field = "modified"
	FieldPath     Field = "path"
)

// ParseField accepts a field name or its column title, case-insensitively.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "filename":
		return FieldName, nil
	case "type", "filetype", "file type", "extension":
		return FieldType, nil
	case "modified", "modified date", "date":
		return FieldModified, nil
	case "path", "absolute path":
		return FieldPath, nil
	}
	return "", fmt.Errorf("unknown sort field %q (want name, type, modified or path)", s)
}

func (f Field) value(record catalog.FileRecord) string {
	switch f {
	case FieldType:
		return record.Extension
	case FieldModified:
		return record.ModifiedAt
	case FieldPath:
		return record.AbsolutePath
	default:
		return record.Name
	}
}

// SortResults returns a copy of results stably sorted by the field's
// case-insensitive value. Descending order is the exact reverse of the
// ascending order.
func SortResults(results Results, field Field, descending bool) Results {
	type keyed struct {
		key    string
		record catalog.FileRecord
	}
	rows := make([]keyed, len(results))
	for i, record := range results {
		rows[i] = keyed{key: strings.ToLower(field.value(record)), record: record}
	}
	slices.SortStableFunc(rows, func(a, b keyed) int {
		return strings.Compare(a.key, b.key)
	})

	sorted := make(Results, len(rows))
	for i, row := range rows {
		sorted[i] = row.record
	}
	if descending {
		slices.Reverse(sorted)
	}
	return sorted
}

// Session holds the last search's results and the sort toggle state for one
// caller. A new search discards both.
type Session struct {
	mu         sync.Mutex
	query      string
	base       Results // catalog order
	view       Results // what the caller last saw
	sortField  Field
	descending bool
}

// SetResults records a fresh search and resets the sort state.
func (s *Session) SetResults(query string, results Results) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.base = results
	s.view = results
	s.sortField = ""
	s.descending = false
}

// Results returns the query and the result set in its current order.
func (s *Session) Results() (string, Results) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query, s.view
}

// SortState returns the active sort field ("" when unsorted) and direction.
func (s *Session) SortState() (Field, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortField, s.descending
}

// Sort reorders the held results by field. Sorting by the field that is
// already active flips the direction; any other field starts ascending.
// It returns the new order and whether it is descending. The catalog is
// never read.
func (s *Session) Sort(field Field) (Results, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if field == s.sortField {
		s.descending = !s.descending
	} else {
		s.sortField = field
		s.descending = false
	}
	s.view = SortResults(s.base, field, s.descending)
	return s.view, s.descending
}
