package catalog

import (
	"encoding/csv"
	"fmt"
	"iter"

	"github.com/lexandro/fileindex-mcp/atomicfile"
)

// Writer streams records into a new catalog. The previous catalog stays in
// place until Commit renames the finished file over it.
type Writer struct {
	path  string
	file  *atomicfile.File
	csv   *csv.Writer
	count int
}

// NewWriter starts a new catalog at path and writes the header row.
func NewWriter(path string) (*Writer, error) {
	file, err := atomicfile.Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}

	w := &Writer{
		path: path,
		file: file,
		csv:  csv.NewWriter(file),
	}
	if err := w.csv.Write(Header); err != nil {
		file.Abort()
		return nil, fmt.Errorf("writing catalog header: %w", err)
	}
	return w, nil
}

// Write appends one record.
func (w *Writer) Write(record FileRecord) error {
	if err := w.csv.Write(record.row()); err != nil {
		return fmt.Errorf("writing record %s: %w", record.AbsolutePath, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.count
}

// TempPath returns the path being written before Commit.
func (w *Writer) TempPath() string {
	return w.file.TempPath()
}

// Commit flushes the catalog and replaces the previous one.
func (w *Writer) Commit() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Abort()
		return fmt.Errorf("flushing catalog %s: %w", w.path, err)
	}
	if err := w.file.Commit(); err != nil {
		return fmt.Errorf("replacing catalog %s: %w", w.path, err)
	}
	return nil
}

// Abort discards everything written; the previous catalog is left as is.
func (w *Writer) Abort() {
	w.file.Abort()
}

// WriteCatalog replaces the catalog at path with records and returns how many
// were written.
func WriteCatalog(path string, records iter.Seq[FileRecord]) (int, error) {
	w, err := NewWriter(path)
	if err != nil {
		return 0, err
	}
	for record := range records {
		if err := w.Write(record); err != nil {
			w.Abort()
			return 0, err
		}
	}
	if err := w.Commit(); err != nil {
		return 0, err
	}
	return w.Count(), nil
}
