package types

import (
	"time"
)

// SearchQuery describes one page fetch against the search engine.
// A fresh value is constructed for every page; it is never mutated
// after construction.
type SearchQuery struct {
	// Topic is the search keyword, e.g. "Federal Reserve Policies".
	Topic string

	// StartDate and EndDate bound the result date range (inclusive).
	StartDate time.Time
	EndDate   time.Time

	// Page is the zero-based result page index. The request offset is
	// Page * PageSize.
	Page int

	// PageSize is the requested number of results per page.
	PageSize int

	// SortByDate asks the engine for newest-first ordering.
	SortByDate bool
}

// Offset returns the result offset sent as the start parameter.
func (q SearchQuery) Offset() int {
	return q.Page * q.PageSize
}

// NewsQuery filters stored articles. Zero values mean "no filter".
// Sources with more than one entry are OR-combined; everything else is
// AND-combined.
type NewsQuery struct {
	Category  string
	Sources   []string
	StartDate time.Time
	EndDate   time.Time
	Limit     int64
}
