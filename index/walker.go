package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lexandro/fileindex-mcp/catalog"
)

// ErrRootUnreadable is returned when a walk cannot start at its root.
var ErrRootUnreadable = errors.New("cannot open walk root")

// IgnoreChecker is used by the walker to check if a path should be skipped.
type IgnoreChecker interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// Walk returns a lazy depth-first sequence of records for every regular file
// under root. Directories are visited before their children, in lexical
// order. Unreadable directories and files whose metadata cannot be read are
// skipped; only an unreadable root is an error. Each iteration walks the tree
// again from scratch. ignoreChecker may be nil.
func Walk(ctx context.Context, root string, ignoreChecker IgnoreChecker, logger *slog.Logger) (iter.Seq[catalog.FileRecord], error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnreadable, root, err)
	}
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	return func(yield func(catalog.FileRecord) bool) {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			if err != nil {
				// Partial directory listings are still walked
				logger.Debug("skipped unreadable entry", "path", path, "error", err)
				return nil
			}
			if d.IsDir() {
				if path != root && ignoreChecker != nil && ignoreChecker.ShouldIgnoreDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if ignoreChecker != nil && ignoreChecker.ShouldIgnore(path) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				logger.Debug("skipped file without metadata", "path", path, "error", err)
				return nil
			}
			if !yield(catalog.NewRecord(path, info.ModTime())) {
				return filepath.SkipAll
			}
			return nil
		})
	}, nil
}

// checkRoot verifies root is a directory that can be listed.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRootUnreadable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootUnreadable, root)
	}
	dir, err := os.Open(root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRootUnreadable, err)
	}
	defer dir.Close()
	if _, err := dir.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrRootUnreadable, err)
	}
	return nil
}
