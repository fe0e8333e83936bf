package fetcher

import (
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
)

// ProxyPool selects an outbound proxy at random per request. The pool
// may be empty, in which case requests go out directly.
type ProxyPool struct {
	proxies []*url.URL
	logger  *slog.Logger
}

// NewProxyPool parses the configured proxy URLs. Invalid entries are
// logged and skipped rather than failing construction.
func NewProxyPool(rawURLs []string, logger *slog.Logger) *ProxyPool {
	pp := &ProxyPool{
		proxies: make([]*url.URL, 0, len(rawURLs)),
		logger:  logger.With("component", "proxy_pool"),
	}

	for _, raw := range rawURLs {
		u, err := url.Parse(raw)
		if err != nil {
			pp.logger.Warn("invalid proxy URL", "url", raw, "error", err)
			continue
		}
		pp.proxies = append(pp.proxies, u)
	}

	if len(pp.proxies) > 0 {
		pp.logger.Info("proxy pool initialized", "count", len(pp.proxies))
	}
	return pp
}

// Pick returns a random proxy, or nil when the pool is empty.
func (pp *ProxyPool) Pick() *url.URL {
	if pp == nil || len(pp.proxies) == 0 {
		return nil
	}
	return pp.proxies[rand.Intn(len(pp.proxies))]
}

// Count returns the number of usable proxies.
func (pp *ProxyPool) Count() int {
	if pp == nil {
		return 0
	}
	return len(pp.proxies)
}

// ProxyFunc returns an http.Transport-compatible proxy function that
// re-rolls the selection on every request.
func (pp *ProxyPool) ProxyFunc() func(*http.Request) (*url.URL, error) {
	return func(*http.Request) (*url.URL, error) {
		return pp.Pick(), nil // nil proxy = direct connection
	}
}
