// Package storage persists articles and scraping metadata.
package storage

import (
	"context"
	"time"

	"github.com/starkadvisor/newshound/internal/types"
)

// Store is the interface the persistence backends satisfy.
type Store interface {
	// InsertArticles persists a batch. An empty batch is a no-op.
	InsertArticles(ctx context.Context, articles []types.Article) error

	// QueryArticles returns stored articles matching the filter,
	// newest first.
	QueryArticles(ctx context.Context, q types.NewsQuery) ([]types.Article, error)

	// UniqueSources lists the distinct source names seen so far.
	UniqueSources(ctx context.Context) ([]string, error)

	// GetCheckpoint reads a named checkpoint. Returns
	// types.ErrNotFound when it was never written.
	GetCheckpoint(ctx context.Context, key string) (time.Time, error)

	// SetCheckpoint upserts a named checkpoint.
	SetCheckpoint(ctx context.Context, key string, value time.Time) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
