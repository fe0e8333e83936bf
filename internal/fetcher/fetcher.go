// Package fetcher dispatches search-engine listing requests: URL
// construction, header randomization, pacing, retry with backoff, and
// challenge-page detection.
package fetcher

import (
	"context"
	"math/rand"
	"time"

	"github.com/starkadvisor/newshound/internal/types"
)

// Page is the result of fetching one listing page.
type Page struct {
	// HTML is the decompressed response body.
	HTML string

	// Challenged is true when the body is an anti-automation
	// interstitial rather than real results. Challenged pages never
	// contain usable data; the caller must stop the topic's scrape.
	Challenged bool

	// FetchedAt is when the response was received.
	FetchedAt time.Time
}

// Fetcher is the interface all dispatcher implementations satisfy.
type Fetcher interface {
	// FetchPage retrieves one listing page for the query. Transient
	// failures are retried internally; an error is terminal for this
	// page only.
	FetchPage(ctx context.Context, q types.SearchQuery) (*Page, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// Pacer sleeps a random duration within a window before a request.
// A zero window disables pacing entirely (tests, local fixtures).
type Pacer struct {
	min time.Duration
	max time.Duration
}

// NewPacer creates a Pacer for the [min, max] window.
func NewPacer(min, max time.Duration) *Pacer {
	return &Pacer{min: min, max: max}
}

// Wait blocks for a random duration in the window, or until the
// context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.max <= 0 {
		return nil
	}
	d := p.min
	if span := p.max - p.min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	return Sleep(ctx, d)
}

// Sleep blocks for d or until ctx is cancelled, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
