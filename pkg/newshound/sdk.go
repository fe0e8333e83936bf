// Package newshound provides a public SDK for embedding the scraping
// pipeline as a library.
//
// Example usage:
//
//	client, err := newshound.New(ctx,
//	    newshound.WithTopics("Stock Market", "Interest Rates"),
//	    newshound.WithMongoURI("mongodb://localhost:27017"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
//	summary, err := client.Run(ctx)
package newshound

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/starkadvisor/newshound/internal/config"
	"github.com/starkadvisor/newshound/internal/dates"
	"github.com/starkadvisor/newshound/internal/fetcher"
	"github.com/starkadvisor/newshound/internal/job"
	"github.com/starkadvisor/newshound/internal/parser"
	"github.com/starkadvisor/newshound/internal/scraper"
	"github.com/starkadvisor/newshound/internal/sentiment"
	"github.com/starkadvisor/newshound/internal/storage"
	"github.com/starkadvisor/newshound/internal/types"
)

// Re-exported types so embedders do not import internal packages.
type (
	// Article is a stored news article.
	Article = types.Article

	// Sentiment is the annotator's verdict.
	Sentiment = types.Sentiment

	// Query filters stored articles.
	Query = types.NewsQuery

	// Summary reports a whole scraping run.
	Summary = job.Summary

	// TopicResult is the outcome of scraping one topic directly.
	TopicResult = scraper.Result
)

// Client is the high-level API for the scraping pipeline.
type Client struct {
	cfg     *config.Config
	logger  *slog.Logger
	fetcher fetcher.Fetcher
	store   *storage.MongoStore
	ctrl    *scraper.Controller
	runner  *job.Runner
}

// Option configures a Client.
type Option func(*config.Config)

// WithTopics replaces the topic list.
func WithTopics(topics ...string) Option {
	return func(c *config.Config) { c.Scraper.Topics = topics }
}

// WithDomains replaces the site allow-list.
func WithDomains(domains ...string) Option {
	return func(c *config.Config) { c.Scraper.Domains = domains }
}

// WithMaxArticles caps articles per topic.
func WithMaxArticles(n int) Option {
	return func(c *config.Config) { c.Scraper.MaxArticles = n }
}

// WithSortByDate requests newest-first result ordering.
func WithSortByDate() Option {
	return func(c *config.Config) { c.Scraper.SortByDate = true }
}

// WithFetcherType selects the dispatcher: "http" or "browser".
func WithFetcherType(t string) Option {
	return func(c *config.Config) { c.Fetcher.Type = t }
}

// WithPacing bounds the random pre-request delay. Zero for both
// disables pacing.
func WithPacing(min, max time.Duration) Option {
	return func(c *config.Config) {
		c.Fetcher.PacingMin = min
		c.Fetcher.PacingMax = max
	}
}

// WithProxy enables the outbound proxy pool.
func WithProxy(urls ...string) Option {
	return func(c *config.Config) {
		c.Proxy.Enabled = true
		c.Proxy.URLs = urls
	}
}

// WithMongoURI sets the MongoDB connection URI.
func WithMongoURI(uri string) Option {
	return func(c *config.Config) { c.Storage.URI = uri }
}

// WithoutSentiment disables annotation.
func WithoutSentiment() Option {
	return func(c *config.Config) { c.Sentiment.Enabled = false }
}

// WithSentimentEndpoint points annotation at a classifier service.
func WithSentimentEndpoint(provider, endpoint string) Option {
	return func(c *config.Config) {
		c.Sentiment.Enabled = true
		c.Sentiment.Provider = provider
		c.Sentiment.Endpoint = endpoint
	}
}

// WithVerbose enables debug-level logging.
func WithVerbose() Option {
	return func(c *config.Config) { c.Logging.Level = "debug" }
}

// New builds a Client: config, fetcher, storage connection, and the
// run pipeline. The returned Client must be Closed.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := config.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := storage.NewMongoStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		store.Close(ctx)
		return nil, err
	}

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		store.Close(ctx)
		return nil, err
	}

	ctrl := scraper.New(
		f,
		parser.NewExtractor(parser.DefaultSelectors(), logger),
		dates.New(logger),
		cfg.Scraper,
		logger,
	)

	var jobOpts []job.Option
	if cfg.Sentiment.Enabled {
		classifier := sentiment.NewHTTPClassifier(cfg.Sentiment, logger)
		jobOpts = append(jobOpts, job.WithAnnotator(
			sentiment.NewAnnotator(classifier, cfg.Sentiment.MaxTextLength, logger)))
	}

	return &Client{
		cfg:     cfg,
		logger:  logger,
		fetcher: f,
		store:   store,
		ctrl:    ctrl,
		runner:  job.NewRunner(ctrl, store, cfg.Scraper, logger, jobOpts...),
	}, nil
}

// Run scrapes every configured topic since the last checkpoint and
// persists the results.
func (c *Client) Run(ctx context.Context) (*Summary, error) {
	return c.runner.Run(ctx)
}

// ScrapeTopic scrapes a single topic over an explicit date window
// without touching the checkpoint or the store.
func (c *Client) ScrapeTopic(ctx context.Context, topic string, start, end time.Time) (*TopicResult, error) {
	return c.ctrl.Scrape(ctx, topic, start, end)
}

// QueryArticles returns stored articles matching the filter, newest
// first.
func (c *Client) QueryArticles(ctx context.Context, q Query) ([]Article, error) {
	return c.store.QueryArticles(ctx, q)
}

// Sources lists the distinct source names in the store.
func (c *Client) Sources(ctx context.Context) ([]string, error) {
	return c.store.UniqueSources(ctx)
}

// Close releases the fetcher and the storage connection.
func (c *Client) Close(ctx context.Context) error {
	if err := c.fetcher.Close(); err != nil {
		c.logger.Warn("fetcher close", "error", err)
	}
	return c.store.Close(ctx)
}
