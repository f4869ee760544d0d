package tools

import (
	"context"
	"strings"
	"testing"
)

func Test_SortHandler_NoSearchYet(t *testing.T) {
	h := newTestSearchHandler(writeTestCatalog(t, "/a/b.txt"))
	sorter := &SortHandler{Session: h.Session, MaxResults: 50, Logger: testLogger()}

	result, _, err := sorter.Handle(context.Background(), nil, SortArgs{Field: "name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Run fileindex_search first") {
		t.Errorf("expected hint to search first, got: %s", text)
	}
}

func Test_SortHandler_UnknownField(t *testing.T) {
	sorter := &SortHandler{Session: newTestSearchHandler("").Session, Logger: testLogger()}

	result, _, err := sorter.Handle(context.Background(), nil, SortArgs{Field: "size"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for unknown field")
	}
}

func Test_SortHandler_ToggleDirection(t *testing.T) {
	h := newTestSearchHandler(writeTestCatalog(t, "/p/beta.txt", "/p/alpha.txt", "/p/gamma.txt"))
	sorter := &SortHandler{Session: h.Session, MaxResults: 50, Logger: testLogger()}

	if _, _, err := h.Handle(context.Background(), nil, SearchArgs{Query: "a"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	result, _, _ := sorter.Handle(context.Background(), nil, SortArgs{Field: "name"})
	text := resultText(t, result)
	if !strings.Contains(text, "sorted by name (ascending)") {
		t.Errorf("expected ascending header, got:\n%s", text)
	}
	if !(strings.Index(text, "alpha.txt") < strings.Index(text, "beta.txt") &&
		strings.Index(text, "beta.txt") < strings.Index(text, "gamma.txt")) {
		t.Errorf("expected alpha, beta, gamma order, got:\n%s", text)
	}

	result, _, _ = sorter.Handle(context.Background(), nil, SortArgs{Field: "name"})
	text = resultText(t, result)
	if !strings.Contains(text, "sorted by name (descending)") {
		t.Errorf("expected descending header, got:\n%s", text)
	}
	if strings.Index(text, "gamma.txt") > strings.Index(text, "alpha.txt") {
		t.Errorf("expected gamma before alpha, got:\n%s", text)
	}
}
