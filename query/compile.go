// Package query turns free-text queries into file name predicates, scans the
// catalog with them and keeps the sort state of the last result set.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrPatternCompile is returned when a query cannot be turned into a matcher.
var ErrPatternCompile = errors.New("internal error compiling search pattern")

// Matcher tests whether a file name satisfies a query.
type Matcher interface {
	Match(name string) bool
}

// Mode selects how a query is compiled.
type Mode string

const (
	// ModeWildcard treats separator runs as gaps and letter/digit runs as
	// case-insensitive literals that must appear in order.
	ModeWildcard Mode = "wildcard"
	// ModeSubsequence matches when the query's letters and digits appear in
	// order anywhere in the name.
	ModeSubsequence Mode = "subsequence"
)

// ParseMode validates a mode name; empty selects ModeWildcard.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", ModeWildcard:
		return ModeWildcard, nil
	case ModeSubsequence:
		return ModeSubsequence, nil
	}
	return "", fmt.Errorf("unknown match mode %q (want wildcard or subsequence)", s)
}

// Compile builds a matcher for query in the given mode.
func Compile(query string, mode Mode) (Matcher, error) {
	if mode == ModeSubsequence {
		return CompileSubsequence(query), nil
	}
	return CompilePattern(query)
}

// CompilePattern compiles query in wildcard mode. An empty query yields a
// matcher that rejects every name.
func CompilePattern(query string) (Matcher, error) {
	if query == "" {
		return rejectAll{}, nil
	}

	expr := wildcardExpr(query)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrPatternCompile, expr, err)
	}
	return &patternMatcher{re: re}, nil
}

// wildcardExpr maps each run of ASCII letters/digits to an escaped literal
// and each run of anything else to ".*".
func wildcardExpr(query string) string {
	var b strings.Builder
	b.WriteString("(?i)")

	start := -1
	inGap := false
	for i := 0; i < len(query); i++ {
		if isASCIIAlnum(query[i]) {
			if start < 0 {
				start = i
			}
			inGap = false
			continue
		}
		if start >= 0 {
			b.WriteString(regexp.QuoteMeta(query[start:i]))
			start = -1
		}
		if !inGap {
			b.WriteString(".*")
			inGap = true
		}
	}
	if start >= 0 {
		b.WriteString(regexp.QuoteMeta(query[start:]))
	}
	return b.String()
}

func isASCIIAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

type patternMatcher struct {
	re *regexp.Regexp
}

func (m *patternMatcher) Match(name string) bool {
	return m.re.MatchString(name)
}

func (m *patternMatcher) String() string {
	return m.re.String()
}

type rejectAll struct{}

func (rejectAll) Match(string) bool { return false }

func (rejectAll) String() string { return "<none>" }

// CompileSubsequence builds a subsequence matcher from the letters and
// digits of query. A query without any accepts every name.
func CompileSubsequence(query string) Matcher {
	if query == "" {
		return rejectAll{}
	}
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if isASCIIAlnum(query[i]) {
			b.WriteByte(query[i])
		}
	}
	return &subsequenceMatcher{pattern: strings.ToLower(b.String())}
}

type subsequenceMatcher struct {
	pattern string
}

func (m *subsequenceMatcher) Match(name string) bool {
	if m.pattern == "" {
		return true
	}
	return len(fuzzy.Find(m.pattern, []string{strings.ToLower(name)})) > 0
}

func (m *subsequenceMatcher) String() string {
	return "~" + m.pattern
}
