package storage

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starkadvisor/newshound/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJSONLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "articles.jsonl")
	w, err := NewJSONLWriter(path, testLogger())
	if err != nil {
		t.Fatalf("NewJSONLWriter: %v", err)
	}

	articles := []types.Article{
		{
			Title:     "Fed raises rates",
			URL:       "https://example.com/a",
			Source:    "Reuters",
			Date:      time.Date(2023, 3, 13, 0, 0, 0, 0, time.UTC),
			Category:  "interest rates",
			Sentiment: &types.Sentiment{Label: "NEGATIVE", Score: 0.72},
		},
		{Title: "Gold steady", URL: "https://example.com/b", Source: "Bloomberg"},
	}
	if err := w.Write(articles); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	var lines []types.Article
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var a types.Article
		if err := json.Unmarshal(sc.Bytes(), &a); err != nil {
			t.Fatalf("line %d not valid JSON: %v", len(lines)+1, err)
		}
		lines = append(lines, a)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Title != "Fed raises rates" || lines[0].Sentiment == nil {
		t.Errorf("first line = %+v", lines[0])
	}
	if lines[1].Sentiment != nil {
		t.Error("absent sentiment serialized")
	}
}

func TestJSONLWriterClosedWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	w, err := NewJSONLWriter(path, testLogger())
	if err != nil {
		t.Fatalf("NewJSONLWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Write([]types.Article{{Title: "late"}}); err != types.ErrStoreClosed {
		t.Errorf("Write after Close = %v, want ErrStoreClosed", err)
	}
	// Close is idempotent.
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
