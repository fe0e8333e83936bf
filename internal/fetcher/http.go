package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/starkadvisor/newshound/internal/config"
	"github.com/starkadvisor/newshound/internal/types"
)

// HTTPFetcher implements Fetcher using net/http. Every request carries
// a freshly randomized User-Agent and no cookies: requests must not be
// correlatable into a session.
type HTTPFetcher struct {
	client     *http.Client
	urlCfg     SearchURLConfig
	userAgents []string
	acceptLang string
	maxBody    int64
	maxRetries int
	pacer      *Pacer
	logger     *slog.Logger
}

// NewHTTPFetcher creates the HTTP dispatcher.
func NewHTTPFetcher(cfg *config.Config, proxies *ProxyPool, logger *slog.Logger) *HTTPFetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  true, // decompression handled below (including brotli)
	}
	if proxies.Count() > 0 {
		transport.Proxy = proxies.ProxyFunc()
	}

	return &HTTPFetcher{
		// No cookie jar: each request stands alone.
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Fetcher.RequestTimeout,
		},
		urlCfg: SearchURLConfig{
			BaseURL:      cfg.Fetcher.BaseURL,
			Domains:      cfg.Scraper.Domains,
			Language:     cfg.Scraper.Language,
			LanguageCode: cfg.Scraper.LanguageCode,
		},
		userAgents: cfg.Fetcher.UserAgents,
		acceptLang: cfg.Fetcher.AcceptLanguage,
		maxBody:    cfg.Fetcher.MaxBodySize,
		maxRetries: cfg.Scraper.MaxRetries,
		pacer:      NewPacer(cfg.Fetcher.PacingMin, cfg.Fetcher.PacingMax),
		logger:     logger.With("component", "http_fetcher"),
	}
}

// FetchPage retrieves one listing page, retrying transient failures
// with exponential backoff. Exhausted retries surface as a terminal
// error for this page only.
func (f *HTTPFetcher) FetchPage(ctx context.Context, q types.SearchQuery) (*Page, error) {
	rawURL := BuildSearchURL(f.urlCfg, q)

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<attempt) * time.Second
			f.logger.Warn("retrying page fetch",
				"url", rawURL,
				"attempt", attempt+1,
				"max", f.maxRetries,
				"backoff", backoff,
				"error", lastErr,
			)
			if err := Sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}

		if err := f.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return page, nil
		}

		var fe *types.FetchError
		if errors.As(err, &fe) && fe.Retryable {
			lastErr = err
			continue
		}
		return nil, err
	}

	return nil, &types.FetchError{
		URL: rawURL,
		Err: fmt.Errorf("%w after %d attempts: %v", types.ErrMaxRetries, f.maxRetries, lastErr),
	}
}

// fetchOnce issues a single GET and classifies the outcome.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", f.randomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", f.acceptLang)
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: isRetryableError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, body),
			Retryable:  true,
		}
	}
	if resp.StatusCode >= 400 {
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	reader, err := decompressReader(resp, io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}

	html := string(body)
	page := &Page{
		HTML:       html,
		Challenged: IsChallenge(html),
		FetchedAt:  time.Now(),
	}

	f.logger.Debug("page fetched",
		"url", rawURL,
		"status", resp.StatusCode,
		"size", len(body),
		"challenged", page.Challenged,
		"duration", time.Since(start),
	)
	return page, nil
}

// Close releases idle connections.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// Type returns the fetcher type identifier.
func (f *HTTPFetcher) Type() string { return "http" }

func (f *HTTPFetcher) randomUserAgent() string {
	if len(f.userAgents) == 0 {
		return "newshound/" + config.Version
	}
	return f.userAgents[rand.Intn(len(f.userAgents))]
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}

// isRetryableError checks if a network error warrants a retry.
// Covers timeouts, connection resets, unexpected EOF, and refused
// connections. Context cancellation is never retryable.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return true
		}
	}
	return false
}
