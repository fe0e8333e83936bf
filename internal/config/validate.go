package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if len(cfg.Scraper.Topics) == 0 {
		return fmt.Errorf("scraper.topics must not be empty")
	}
	if cfg.Scraper.MaxArticles < 1 {
		return fmt.Errorf("scraper.max_articles must be >= 1, got %d", cfg.Scraper.MaxArticles)
	}
	if cfg.Scraper.PageSize < 1 {
		return fmt.Errorf("scraper.page_size must be >= 1, got %d", cfg.Scraper.PageSize)
	}
	if cfg.Scraper.MaxRetries < 1 {
		return fmt.Errorf("scraper.max_retries must be >= 1, got %d", cfg.Scraper.MaxRetries)
	}
	if cfg.Scraper.RetryPause < 0 {
		return fmt.Errorf("scraper.retry_pause must be >= 0")
	}
	if cfg.Scraper.CheckpointWindow <= 0 {
		return fmt.Errorf("scraper.checkpoint_window must be > 0")
	}

	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if err := ValidateURL(cfg.Fetcher.BaseURL); err != nil {
		return fmt.Errorf("fetcher.base_url: %w", err)
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.PacingMin < 0 || cfg.Fetcher.PacingMax < cfg.Fetcher.PacingMin {
		return fmt.Errorf("fetcher pacing window [%s, %s] is invalid",
			cfg.Fetcher.PacingMin, cfg.Fetcher.PacingMax)
	}
	if len(cfg.Fetcher.UserAgents) == 0 {
		return fmt.Errorf("fetcher.user_agents must not be empty")
	}

	if cfg.Proxy.Enabled {
		if len(cfg.Proxy.URLs) == 0 {
			return fmt.Errorf("proxy.enabled is true but proxy.urls is empty")
		}
		for _, raw := range cfg.Proxy.URLs {
			if err := ValidateURL(raw); err != nil {
				return fmt.Errorf("proxy url %q: %w", raw, err)
			}
		}
	}

	if cfg.Sentiment.Enabled {
		if err := ValidateURL(cfg.Sentiment.Endpoint); err != nil {
			return fmt.Errorf("sentiment.endpoint: %w", err)
		}
		if cfg.Sentiment.MaxTextLength < 1 {
			return fmt.Errorf("sentiment.max_text_length must be >= 1, got %d", cfg.Sentiment.MaxTextLength)
		}
	}

	if cfg.Storage.URI == "" {
		return fmt.Errorf("storage.uri must not be empty")
	}
	if cfg.Storage.Database == "" {
		return fmt.Errorf("storage.database must not be empty")
	}
	if cfg.Storage.ConnectTimeout <= 0 || cfg.Storage.SocketTimeout <= 0 {
		return fmt.Errorf("storage timeouts must be > 0")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %q", cfg.Logging.Level)
	}

	return nil
}

// ValidateURL checks that a string is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
