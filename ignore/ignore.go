package ignore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher decides which paths under one volume root the walker skips.
// It combines the default system directories, an optional gitignore-syntax
// ignore file evaluated relative to the root, and custom doublestar patterns.
// A Matcher is read-only after NewMatcher.
type Matcher struct {
	rootDir        string
	rules          gitignore.GitIgnore
	customPatterns []string
	skipDirs       []string
	useDefaults    bool
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir        string   // Volume root the rules are relative to
	IgnoreFile     string   // Optional gitignore-syntax file
	CustomPatterns []string // Doublestar patterns for absolute paths or base names
	NoDefaults     bool     // Disable DefaultSkipDirs and DefaultSkipDirNames
}

// NewMatcher creates a matcher for one volume root.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rootDir:        options.RootDir,
		customPatterns: options.CustomPatterns,
	}
	if !options.NoDefaults {
		matcher.skipDirs = DefaultSkipDirs
		matcher.useDefaults = true
	}
	matcher.rules = loadIgnoreFile(options.IgnoreFile, options.RootDir)
	return matcher
}

// ValidatePatterns reports the first custom pattern doublestar cannot parse.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	return nil
}

// ShouldIgnore reports whether a file should be left out of the catalog.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	return m.matches(absolutePath, false)
}

// ShouldIgnoreDir reports whether a directory should be skipped entirely.
// The volume root itself is never skipped.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	if filepath.Clean(absolutePath) == filepath.Clean(m.rootDir) {
		return false
	}
	for _, dir := range m.skipDirs {
		if absolutePath == dir {
			return true
		}
	}
	if m.useDefaults {
		baseName := filepath.Base(absolutePath)
		for _, name := range DefaultSkipDirNames {
			if strings.EqualFold(baseName, name) {
				return true
			}
		}
	}

	return m.matches(absolutePath, true)
}

func (m *Matcher) matches(absolutePath string, isDir bool) bool {
	if m.rules != nil {
		relativePath, err := filepath.Rel(m.rootDir, absolutePath)
		if err == nil && !outsideRoot(relativePath) {
			match := m.rules.Relative(filepath.ToSlash(relativePath), isDir)
			if match != nil && match.Ignore() {
				return true
			}
		}
	}
	return m.matchesCustomPatterns(absolutePath)
}

func outsideRoot(relativePath string) bool {
	return relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(filepath.Separator))
}

// matchesCustomPatterns tries each pattern against the slash-form absolute
// path and then against the base name.
func (m *Matcher) matchesCustomPatterns(absolutePath string) bool {
	if len(m.customPatterns) == 0 {
		return false
	}
	slashPath := filepath.ToSlash(absolutePath)
	baseName := filepath.Base(absolutePath)
	for _, pattern := range m.customPatterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, slashPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// loadIgnoreFile parses a gitignore-syntax file with baseDir as its root.
// A missing or unreadable file yields nil rules.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	if filePath == "" {
		return nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	return gitignore.New(bytes.NewReader(data), baseDir, nil)
}
