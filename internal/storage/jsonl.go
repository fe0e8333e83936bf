package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/starkadvisor/newshound/internal/types"
)

// JSONLWriter streams articles to a newline-delimited JSON file. Used
// by the export option for feeding downstream tooling without a
// database round-trip.
type JSONLWriter struct {
	path   string
	file   *os.File
	enc    *json.Encoder
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewJSONLWriter creates the output file, making parent directories
// as needed.
func NewJSONLWriter(path string, logger *slog.Logger) (*JSONLWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	return &JSONLWriter{
		path:   path,
		file:   f,
		enc:    json.NewEncoder(f),
		logger: logger.With("component", "jsonl_writer"),
	}, nil
}

// Write appends a batch, one object per line.
func (w *JSONLWriter) Write(articles []types.Article) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return types.ErrStoreClosed
	}
	for i := range articles {
		if err := w.enc.Encode(articles[i]); err != nil {
			return fmt.Errorf("encode article: %w", err)
		}
	}
	w.count += len(articles)
	return nil
}

// Close flushes and closes the file.
func (w *JSONLWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	w.logger.Info("export written", "path", w.path, "articles", w.count)
	return err
}
