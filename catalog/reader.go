package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
)

// Reader streams records from a catalog file. It holds one open file handle;
// replacing the catalog while a Reader is open does not affect it.
type Reader struct {
	file *os.File
	csv  *csv.Reader
}

// Open opens the catalog at path and validates its header. It returns
// ErrCatalogMissing when the file does not exist.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCatalogMissing
		}
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}

	r := &Reader{
		file: file,
		csv:  csv.NewReader(bufio.NewReaderSize(file, 64*1024)),
	}
	r.csv.FieldsPerRecord = len(Header)
	r.csv.ReuseRecord = true

	header, err := r.csv.Read()
	if err == io.EOF {
		// An empty file holds no records; Next reports io.EOF immediately.
		return r, nil
	}
	if err != nil || !slices.Equal(header, Header) {
		file.Close()
		return nil, fmt.Errorf("%w: bad header in %s", ErrCorruptCatalog, path)
	}
	return r, nil
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (FileRecord, error) {
	row, err := r.csv.Read()
	if err == io.EOF {
		return FileRecord{}, io.EOF
	}
	if err != nil {
		return FileRecord{}, fmt.Errorf("%w: %v", ErrCorruptCatalog, err)
	}
	return recordFromRow(row), nil
}

// Close releases the file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadCatalog opens the catalog at path and returns its records as a lazy
// sequence. The sequence closes the file when iteration ends; a read error
// is yielded once as the final element.
func ReadCatalog(path string) (iter.Seq2[FileRecord, error], error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}

	return func(yield func(FileRecord, error) bool) {
		defer r.Close()
		for {
			record, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(FileRecord{}, err)
				return
			}
			if !yield(record, nil) {
				return
			}
		}
	}, nil
}

// CountRecords returns the number of records in the catalog at path without
// holding more than one row in memory.
func CountRecords(path string) (int, error) {
	r, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	count := 0
	for {
		_, err := r.csv.Read()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("%w: %v", ErrCorruptCatalog, err)
		}
		count++
	}
}
