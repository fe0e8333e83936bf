// Package job orchestrates a full scraping run: checkpoint window,
// per-topic scraping with retries, annotation, and persistence.
package job

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/starkadvisor/newshound/internal/config"
	"github.com/starkadvisor/newshound/internal/fetcher"
	"github.com/starkadvisor/newshound/internal/scraper"
	"github.com/starkadvisor/newshound/internal/storage"
	"github.com/starkadvisor/newshound/internal/types"
)

// Scraper collects articles for one topic. Satisfied by
// *scraper.Controller.
type Scraper interface {
	Scrape(ctx context.Context, topic string, start, end time.Time) (*scraper.Result, error)
}

// Annotator attaches sentiment to a batch. Satisfied by
// *sentiment.Annotator.
type Annotator interface {
	Annotate(ctx context.Context, articles []types.Article)
}

// Exporter receives every persisted batch, for side outputs like the
// JSONL export. Satisfied by *storage.JSONLWriter.
type Exporter interface {
	Write(articles []types.Article) error
}

// TopicOutcome summarizes one topic's scrape.
type TopicOutcome struct {
	Topic    string
	Articles int
	Attempts int
	Err      error
}

// Summary is the result of a whole run.
type Summary struct {
	Window   [2]time.Time
	Topics   []TopicOutcome
	Articles int
	Failed   int
	Skipped  bool
}

// Runner executes scraping runs.
type Runner struct {
	scraper   Scraper
	annotator Annotator
	store     storage.Store
	exporter  Exporter
	cfg       config.ScraperConfig
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithAnnotator enables sentiment annotation.
func WithAnnotator(a Annotator) Option {
	return func(r *Runner) { r.annotator = a }
}

// WithExporter mirrors persisted batches to a side output.
func WithExporter(e Exporter) Option {
	return func(r *Runner) { r.exporter = e }
}

// WithNow overrides the clock, for tests.
func WithNow(fn func() time.Time) Option {
	return func(r *Runner) { r.now = fn }
}

// NewRunner creates a Runner.
func NewRunner(s Scraper, store storage.Store, cfg config.ScraperConfig, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		scraper: s,
		store:   store,
		cfg:     cfg,
		logger:  logger.With("component", "runner"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run scrapes every configured topic over the window since the last
// checkpoint. One topic failing never aborts the run; the checkpoint
// only advances when the run completes.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start, end, err := r.window(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Window: [2]time.Time{start, end}}
	if start.After(end) {
		r.logger.Info("already up to date, nothing to scrape",
			"checkpoint", start.AddDate(0, 0, -1).Format(types.DateLayout))
		sum.Skipped = true
		return sum, nil
	}

	r.logger.Info("run starting",
		"topics", len(r.cfg.Topics),
		"from", start.Format(types.DateLayout),
		"to", end.Format(types.DateLayout),
	)

	for _, topic := range r.cfg.Topics {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}

		outcome := r.scrapeTopic(ctx, topic, start, end)
		sum.Topics = append(sum.Topics, outcome)
		sum.Articles += outcome.Articles
		if outcome.Err != nil {
			sum.Failed++
		}
	}

	if err := r.store.SetCheckpoint(ctx, types.CheckpointLastScraped, end); err != nil {
		return sum, err
	}

	r.logger.Info("run finished",
		"articles", sum.Articles,
		"topics", len(sum.Topics),
		"failed", sum.Failed,
	)
	return sum, nil
}

// window computes the scrape date range from the stored checkpoint.
// A missing checkpoint starts the configured lookback ago.
func (r *Runner) window(ctx context.Context) (time.Time, time.Time, error) {
	now := midnight(r.now())

	checkpoint, err := r.store.GetCheckpoint(ctx, types.CheckpointLastScraped)
	switch {
	case errors.Is(err, types.ErrNotFound):
		checkpoint = now.Add(-r.cfg.CheckpointWindow)
		r.logger.Info("no checkpoint, starting from lookback",
			"from", checkpoint.Format(types.DateLayout))
	case err != nil:
		return time.Time{}, time.Time{}, err
	}

	return midnight(checkpoint).AddDate(0, 0, 1), now, nil
}

// scrapeTopic runs one topic with retries. Only a scrape that yields
// zero articles is retried: a partial result from a run that errored
// mid-way is still valid and gets persisted immediately, never thrown
// away for another attempt.
func (r *Runner) scrapeTopic(ctx context.Context, topic string, start, end time.Time) TopicOutcome {
	outcome := TopicOutcome{Topic: topic}
	log := r.logger.With("topic", topic)

	var articles []types.Article
	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		outcome.Attempts = attempt

		res, err := r.scraper.Scrape(ctx, topic, start, end)
		if res != nil && len(res.Articles) > 0 {
			articles = res.Articles
			outcome.Err = nil
			if err != nil {
				log.Warn("scrape ended early, keeping partial result",
					"attempt", attempt, "articles", len(articles), "error", err)
			}
			break
		}

		outcome.Err = err
		if ctx.Err() != nil {
			return outcome
		}
		if err != nil {
			log.Warn("scrape attempt failed", "attempt", attempt, "error", err)
		} else {
			log.Warn("scrape returned no articles", "attempt", attempt)
		}

		if attempt < r.cfg.MaxRetries {
			if err := fetcher.Sleep(ctx, r.cfg.RetryPause); err != nil {
				outcome.Err = err
				return outcome
			}
		}
	}

	if len(articles) == 0 {
		if outcome.Err == nil {
			outcome.Err = types.ErrNoArticles
		}
		log.Error("topic yielded nothing", "attempts", outcome.Attempts, "error", outcome.Err)
		return outcome
	}

	if r.annotator != nil {
		r.annotator.Annotate(ctx, articles)
	}

	if err := r.store.InsertArticles(ctx, articles); err != nil {
		outcome.Err = err
		log.Error("persist failed", "error", err)
		return outcome
	}
	if r.exporter != nil {
		if err := r.exporter.Write(articles); err != nil {
			log.Warn("export failed", "error", err)
		}
	}

	outcome.Articles = len(articles)
	log.Info("topic persisted", "articles", outcome.Articles, "attempts", outcome.Attempts)
	return outcome
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
