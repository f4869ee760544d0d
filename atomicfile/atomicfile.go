// Package atomicfile replaces files by writing a temp file in the target's
// directory and renaming it over the target once the content is complete.
package atomicfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// File is a pending replacement for a target path. Writes go to a temp file
// in the same directory; the target is untouched until Commit succeeds.
type File struct {
	target string
	tmp    *os.File
	buf    *bufio.Writer
	done   bool
}

// Create opens a pending replacement for target, creating the parent
// directory if needed.
func Create(target string) (*File, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp file in %s: %w", dir, err)
	}

	return &File{
		target: target,
		tmp:    tmp,
		buf:    bufio.NewWriterSize(tmp, 64*1024),
	}, nil
}

// Write buffers p into the temp file.
func (f *File) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

// TempPath returns the path of the temp file backing this replacement.
func (f *File) TempPath() string {
	return f.tmp.Name()
}

// Commit flushes and syncs the temp file, then renames it over the target.
// On failure the temp file is removed and the target keeps its old content.
func (f *File) Commit() error {
	if f.done {
		return fmt.Errorf("%s already committed or aborted", f.target)
	}
	f.done = true
	tmpPath := f.tmp.Name()

	if err := f.buf.Flush(); err != nil {
		f.tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := f.tmp.Sync(); err != nil {
		f.tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file %s: %w", tmpPath, err)
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, f.target, err)
	}
	return nil
}

// Abort discards the temp file. It is a no-op after Commit.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}

// WriteFile atomically replaces target with data.
func WriteFile(target string, data []byte) error {
	f, err := Create(target)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return f.Commit()
}
