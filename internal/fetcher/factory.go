package fetcher

import (
	"fmt"
	"log/slog"

	"github.com/starkadvisor/newshound/internal/config"
)

// New builds the fetcher named by cfg.Fetcher.Type.
func New(cfg *config.Config, logger *slog.Logger) (Fetcher, error) {
	var proxyURLs []string
	if cfg.Proxy.Enabled {
		proxyURLs = cfg.Proxy.URLs
	}
	proxies := NewProxyPool(proxyURLs, logger)

	switch cfg.Fetcher.Type {
	case "http", "":
		return NewHTTPFetcher(cfg, proxies, logger), nil
	case "browser":
		return NewBrowserFetcher(cfg, proxies, logger)
	default:
		return nil, fmt.Errorf("unknown fetcher type: %q", cfg.Fetcher.Type)
	}
}
