package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/starkadvisor/newshound/internal/config"
	"github.com/starkadvisor/newshound/internal/types"
)

// BrowserFetcher implements Fetcher using a headless Chromium via Rod.
// It is the fallback dispatcher for when plain HTTP requests are
// consistently challenged; stealth patches hide the usual automation
// fingerprints.
type BrowserFetcher struct {
	browser    *rod.Browser
	urlCfg     SearchURLConfig
	userAgents []string
	timeout    time.Duration
	pacer      *Pacer
	logger     *slog.Logger
}

// NewBrowserFetcher launches a headless browser and connects to it.
func NewBrowserFetcher(cfg *config.Config, proxies *ProxyPool, logger *slog.Logger) (*BrowserFetcher, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	if proxy := proxies.Pick(); proxy != nil {
		l = l.Proxy(proxy.String())
	}

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	bf := &BrowserFetcher{
		browser: browser,
		urlCfg: SearchURLConfig{
			BaseURL:      cfg.Fetcher.BaseURL,
			Domains:      cfg.Scraper.Domains,
			Language:     cfg.Scraper.Language,
			LanguageCode: cfg.Scraper.LanguageCode,
		},
		userAgents: cfg.Fetcher.UserAgents,
		timeout:    cfg.Fetcher.RequestTimeout,
		pacer:      NewPacer(cfg.Fetcher.PacingMin, cfg.Fetcher.PacingMax),
		logger:     logger.With("component", "browser_fetcher"),
	}

	bf.logger.Info("browser fetcher ready", "proxy", proxies.Count() > 0)
	return bf, nil
}

// FetchPage renders one listing page in a fresh stealth tab.
func (bf *BrowserFetcher) FetchPage(ctx context.Context, q types.SearchQuery) (*Page, error) {
	rawURL := BuildSearchURL(bf.urlCfg, q)

	if err := bf.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	page, err := stealth.Page(bf.browser)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: fmt.Errorf("stealth page: %w", err), Retryable: true}
	}
	defer page.Close()

	page = page.Context(ctx)

	if len(bf.userAgents) > 0 {
		ua := bf.userAgents[rand.Intn(len(bf.userAgents))]
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	if err := page.Timeout(bf.timeout).Navigate(rawURL); err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}
	if err := page.Timeout(bf.timeout).WaitStable(300 * time.Millisecond); err != nil {
		bf.logger.Warn("page stability timeout, continuing", "url", rawURL, "error", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}

	result := &Page{
		HTML:       html,
		Challenged: IsChallenge(html),
		FetchedAt:  time.Now(),
	}

	bf.logger.Debug("page rendered",
		"url", rawURL,
		"size", len(html),
		"challenged", result.Challenged,
		"duration", time.Since(start),
	)
	return result, nil
}

// Close shuts down the browser.
func (bf *BrowserFetcher) Close() error {
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string { return "browser" }
