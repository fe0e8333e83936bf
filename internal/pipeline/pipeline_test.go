package pipeline

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starkadvisor/newshound/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func article(url string) *types.Article {
	return &types.Article{
		Title:  "Some headline",
		URL:    url,
		Source: "Reuters",
	}
}

func TestTrimMiddleware(t *testing.T) {
	a := &types.Article{
		Title:       "  Fed raises rates  ",
		URL:         " https://example.com/a ",
		Source:      "\tReuters\n",
		Description: " body ",
	}
	out, err := (&TrimMiddleware{}).Process(a)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Title != "Fed raises rates" || out.URL != "https://example.com/a" ||
		out.Source != "Reuters" || out.Description != "body" {
		t.Errorf("fields not trimmed: %+v", out)
	}
}

func TestRequiredFieldsMiddleware(t *testing.T) {
	mw := &RequiredFieldsMiddleware{}

	tests := []struct {
		name string
		a    *types.Article
		keep bool
	}{
		{"complete", article("https://example.com/a"), true},
		{"no title", &types.Article{URL: "https://example.com/a", Source: "Reuters"}, false},
		{"no url", &types.Article{Title: "t", Source: "Reuters"}, false},
		{"no source", &types.Article{Title: "t", URL: "https://example.com/a"}, false},
		{"no date is fine", article("https://example.com/b"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := mw.Process(tt.a)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if kept := out != nil; kept != tt.keep {
				t.Errorf("kept = %v, want %v", kept, tt.keep)
			}
		})
	}
}

func TestDedupMiddleware(t *testing.T) {
	mw := NewDedupMiddleware()

	out, _ := mw.Process(article("https://Example.com/story/"))
	if out == nil {
		t.Fatal("first occurrence dropped")
	}
	// Same story behind a different surface form of the URL.
	out, _ = mw.Process(article("https://example.com/story#frag"))
	if out != nil {
		t.Error("canonical duplicate not dropped")
	}
	out, _ = mw.Process(article("https://example.com/other"))
	if out == nil {
		t.Error("distinct URL dropped")
	}
	if mw.Seen() != 2 {
		t.Errorf("Seen = %d, want 2", mw.Seen())
	}
}

func TestDefaultPipeline(t *testing.T) {
	p := Default(testLogger())
	if p.Len() != 3 {
		t.Fatalf("Len = %d, want 3", p.Len())
	}

	// Whitespace-only title should be trimmed to empty, then dropped.
	out, err := p.Process(&types.Article{
		Title:  "   ",
		URL:    "https://example.com/a",
		Source: "Reuters",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out != nil {
		t.Error("blank-title article not dropped")
	}

	// A valid article passes through and is registered for dedup.
	out, err = p.Process(article("https://example.com/a"))
	if err != nil || out == nil {
		t.Fatalf("valid article dropped: out=%v err=%v", out, err)
	}
	out, _ = p.Process(article("https://example.com/a"))
	if out != nil {
		t.Error("duplicate passed through default pipeline")
	}
}

func TestCanonicalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTPS://Example.COM/Path/", "https://example.com/Path"},
		{"https://example.com/a#section", "https://example.com/a"},
		{"https://example.com/a?id=1", "https://example.com/a?id=1"},
	}
	for _, tt := range tests {
		if got := CanonicalizeURL(tt.in); got != tt.want {
			t.Errorf("CanonicalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
