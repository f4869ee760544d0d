package catalog

import (
	"path/filepath"
	"strings"
	"time"
)

// TimeLayout renders modification times the way C ctime does.
const TimeLayout = time.ANSIC

// Header is the first row of every catalog file.
var Header = []string{"Filename", "File Type", "Absolute Path", "Modified Date"}

// FileRecord is one file discovered during an index run.
type FileRecord struct {
	Name         string // Base name including extension
	Extension    string // Text after the last dot, without the dot
	AbsolutePath string // Fully resolved path
	ModifiedAt   string // Modification time rendered with TimeLayout
}

// NewRecord builds a record for the file at absolutePath.
func NewRecord(absolutePath string, modTime time.Time) FileRecord {
	name := filepath.Base(absolutePath)
	return FileRecord{
		Name:         name,
		Extension:    Extension(name),
		AbsolutePath: absolutePath,
		ModifiedAt:   modTime.Local().Format(TimeLayout),
	}
}

// Extension returns the part of name after its last dot. Leading dots do not
// start an extension, so ".bashrc" and "..." have none.
func Extension(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	idx := strings.LastIndexByte(trimmed, '.')
	if idx < 0 {
		return ""
	}
	return trimmed[idx+1:]
}

// The csv reader drops a carriage return that precedes a newline, even
// inside quotes. Paths never contain NUL, so CR is stored as NUL instead.
var (
	escapeCR   = strings.NewReplacer("\r", "\x00")
	unescapeCR = strings.NewReplacer("\x00", "\r")
)

func (r FileRecord) row() []string {
	return []string{
		escapeCR.Replace(r.Name),
		escapeCR.Replace(r.Extension),
		escapeCR.Replace(r.AbsolutePath),
		r.ModifiedAt,
	}
}

func recordFromRow(row []string) FileRecord {
	return FileRecord{
		Name:         unescapeCR.Replace(row[0]),
		Extension:    unescapeCR.Replace(row[1]),
		AbsolutePath: unescapeCR.Replace(row[2]),
		ModifiedAt:   row[3],
	}
}
