package query

import "testing"

func mustCompile(t *testing.T, query string) Matcher {
	t.Helper()
	m, err := CompilePattern(query)
	if err != nil {
		t.Fatalf("CompilePattern(%q) failed: %v", query, err)
	}
	return m
}

func Test_CompilePattern_Matches(t *testing.T) {
	tests := []struct {
		query string
		name  string
		want  bool
	}{
		{"my doc", "MyDoc2023.pdf", true},
		{"my doc", "my-final-document.txt", true},
		{"my doc", "my_doc_final.txt", true},
		{"my doc", "docmy.txt", false},
		{"a.b", "a.b.txt", true},
		{"a.b", "aXb.txt", true},
		{"a.b", "ab", true},
		{"a.b", "ba.txt", false},
		{"report", "Q3-REPORT.xlsx", true},
		{"report", "repo.txt", false},
		{"2023", "photo_2023_01.jpg", true},
		{"(x)+[y]", "x and y", true},
		{"$^|\\", "anything", true},
		{"café", "cafe_menu.pdf", true},
		{"café", "menu.pdf", false},
		{"café", "caf-something", true},
		{"abc", "xxABCxx", true},
	}
	for _, tt := range tests {
		t.Run(tt.query+"~"+tt.name, func(t *testing.T) {
			if got := mustCompile(t, tt.query).Match(tt.name); got != tt.want {
				t.Errorf("CompilePattern(%q).Match(%q) = %v, want %v", tt.query, tt.name, got, tt.want)
			}
		})
	}
}

func Test_CompilePattern_EmptyRejectsEverything(t *testing.T) {
	m := mustCompile(t, "")
	for _, name := range []string{"", "a", "anything.txt"} {
		if m.Match(name) {
			t.Errorf("expected empty query to reject %q", name)
		}
	}
}

func Test_CompilePattern_SeparatorsOnlyMatchesEverything(t *testing.T) {
	m := mustCompile(t, "  ")
	if !m.Match("whatever.bin") {
		t.Error("expected separator-only query to match any name")
	}
}

func Test_wildcardExpr(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"my doc", "(?i)my.*doc"},
		{"a.b", "(?i)a.*b"},
		{"--x--", "(?i).*x.*"},
		{"abc", "(?i)abc"},
		{"日本", "(?i).*"},
	}
	for _, tt := range tests {
		if got := wildcardExpr(tt.query); got != tt.want {
			t.Errorf("wildcardExpr(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func Test_CompileSubsequence(t *testing.T) {
	m := CompileSubsequence("mdc")
	if !m.Match("MyDocument.txt") {
		t.Error("expected subsequence match across word boundaries")
	}
	if m.Match("cdm.txt") {
		t.Error("expected order to matter")
	}
	if CompileSubsequence("").Match("x") {
		t.Error("expected empty query to reject everything")
	}
	if !CompileSubsequence("..").Match("x") {
		t.Error("expected separator-only query to match everything")
	}
}

func Test_ParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeWildcard {
		t.Errorf("expected default wildcard, got %q, %v", m, err)
	}
	if m, err := ParseMode("Subsequence"); err != nil || m != ModeSubsequence {
		t.Errorf("expected subsequence, got %q, %v", m, err)
	}
	if _, err := ParseMode("regex"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
