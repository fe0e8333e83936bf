// Package scraper drives pagination for one topic: fetch a page,
// extract, normalize, validate, repeat until a stop condition fires.
package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/starkadvisor/newshound/internal/config"
	"github.com/starkadvisor/newshound/internal/dates"
	"github.com/starkadvisor/newshound/internal/fetcher"
	"github.com/starkadvisor/newshound/internal/parser"
	"github.com/starkadvisor/newshound/internal/pipeline"
	"github.com/starkadvisor/newshound/internal/types"
)

// emptyPageLimit is how many consecutive empty pages are tolerated
// before the scrape concludes results ran out. Listing engines pad
// their result counts, so one empty page is not yet proof.
const emptyPageLimit = 2

// Result is the outcome of scraping one topic.
type Result struct {
	Topic    string
	Articles []types.Article
	Pages    int
	Reason   StopReason
}

// Controller runs the per-topic pagination loop.
type Controller struct {
	fetcher    fetcher.Fetcher
	extractor  *parser.Extractor
	normalizer *dates.Normalizer
	cfg        config.ScraperConfig
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithNow overrides the clock, for tests.
func WithNow(fn func() time.Time) Option {
	return func(c *Controller) { c.now = fn }
}

// New creates a Controller.
func New(f fetcher.Fetcher, e *parser.Extractor, n *dates.Normalizer, cfg config.ScraperConfig, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		fetcher:    f,
		extractor:  e,
		normalizer: n,
		cfg:        cfg,
		logger:     logger.With("component", "controller"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scrape collects articles for one topic within the date window.
// The result always holds whatever was collected, even when an error
// is returned: a fetch failure mid-run keeps the earlier pages. URL
// dedup is scoped to this call.
func (c *Controller) Scrape(ctx context.Context, topic string, start, end time.Time) (*Result, error) {
	res := &Result{Topic: topic, Reason: StopPagesExhausted}
	pipe := pipeline.Default(c.logger)

	maxPages := (c.cfg.MaxArticles + c.cfg.PageSize - 1) / c.cfg.PageSize
	emptyStreak := 0

	for page := 0; page < maxPages; page++ {
		if len(res.Articles) >= c.cfg.MaxArticles {
			res.Reason = StopLimit
			break
		}

		q := types.SearchQuery{
			Topic:      topic,
			StartDate:  start,
			EndDate:    end,
			Page:       page,
			PageSize:   c.cfg.PageSize,
			SortByDate: c.cfg.SortByDate,
		}

		// Pacing lives inside the dispatcher: FetchPage delays before
		// every request, so each page fetch (and each retry of it) is
		// already paced without a second delay here.
		fetched, err := c.fetcher.FetchPage(ctx, q)
		if err != nil {
			c.logger.Error("page fetch failed",
				"topic", topic, "page", page, "error", err)
			return res, err
		}
		res.Pages++

		if fetched.Challenged {
			c.logger.Warn("challenge page served, aborting topic",
				"topic", topic, "page", page, "collected", len(res.Articles))
			res.Reason = StopChallenge
			break
		}

		raw, err := c.extractor.Extract(fetched.HTML)
		if err != nil {
			return res, err
		}

		if len(raw) == 0 {
			emptyStreak++
			c.logger.Debug("empty page", "topic", topic, "page", page, "streak", emptyStreak)
			if emptyStreak >= emptyPageLimit {
				res.Reason = StopEmpty
				break
			}
			continue
		}
		emptyStreak = 0

		kept := c.collect(res, pipe, raw, topic)
		c.logger.Info("page scraped",
			"topic", topic,
			"page", page,
			"extracted", len(raw),
			"kept", kept,
			"total", len(res.Articles),
		)
	}

	if len(res.Articles) >= c.cfg.MaxArticles {
		res.Articles = res.Articles[:c.cfg.MaxArticles]
		res.Reason = StopLimit
	}

	c.logger.Info("topic finished",
		"topic", topic,
		"articles", len(res.Articles),
		"pages", res.Pages,
		"reason", res.Reason.String(),
	)
	return res, nil
}

// collect normalizes raw records into Articles and runs each through
// the pipeline. Returns how many survived.
func (c *Controller) collect(res *Result, pipe *pipeline.Pipeline, raw []types.RawArticle, topic string) int {
	kept := 0
	for _, r := range raw {
		a := &types.Article{
			Title:       r.Title,
			URL:         r.URL,
			Source:      r.Source,
			Category:    topic,
			Description: r.Description,
			ScrapedAt:   c.now().UTC(),
		}
		if date, ok := c.normalizer.Parse(r.RawDate); ok {
			a.Date = date
		} else if r.RawDate != "" {
			c.logger.Debug("unparseable date", "raw", r.RawDate, "url", r.URL)
		}

		out, err := pipe.Process(a)
		if err != nil {
			c.logger.Warn("pipeline error", "url", r.URL, "error", err)
			continue
		}
		if out == nil {
			continue
		}
		res.Articles = append(res.Articles, *out)
		kept++
	}
	return kept
}
