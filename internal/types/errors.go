package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrMaxRetries  = errors.New("max retries exceeded")
	ErrChallenged  = errors.New("challenge page returned")
	ErrNoArticles  = errors.New("no articles returned")
	ErrNotFound    = errors.New("document not found")
	ErrStoreClosed = errors.New("store is closed")
)

// FetchError wraps errors that occur while fetching a search page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ParseError wraps errors that occur during listing extraction.
type ParseError struct {
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("parse error (selector=%q): %v", e.Selector, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps errors from the persistence adapter.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ClassifyError wraps errors from the text-classification capability.
type ClassifyError struct {
	Provider string
	Err      error
}

func (e *ClassifyError) Error() string {
	return fmt.Sprintf("classify error (%s): %v", e.Provider, e.Err)
}

func (e *ClassifyError) Unwrap() error { return e.Err }
