package job

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starkadvisor/newshound/internal/config"
	"github.com/starkadvisor/newshound/internal/scraper"
	"github.com/starkadvisor/newshound/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeScraper replays scripted results and errors per topic, in call
// order. The last script entry repeats once exhausted.
type fakeScraper struct {
	results map[string][]*scraper.Result
	errs    map[string]error
	errSeq  map[string][]error
	calls   map[string]int
	windows [][2]time.Time
}

func newFakeScraper() *fakeScraper {
	return &fakeScraper{
		results: make(map[string][]*scraper.Result),
		errs:    make(map[string]error),
		errSeq:  make(map[string][]error),
		calls:   make(map[string]int),
	}
}

func (f *fakeScraper) Scrape(_ context.Context, topic string, start, end time.Time) (*scraper.Result, error) {
	f.windows = append(f.windows, [2]time.Time{start, end})
	n := f.calls[topic]
	f.calls[topic] = n + 1

	var err error
	if seq := f.errSeq[topic]; len(seq) > 0 {
		i := n
		if i >= len(seq) {
			i = len(seq) - 1
		}
		err = seq[i]
	} else if e, ok := f.errs[topic]; ok {
		err = e
	}

	res := &scraper.Result{Topic: topic}
	if script := f.results[topic]; len(script) > 0 {
		i := n
		if i >= len(script) {
			i = len(script) - 1
		}
		res = script[i]
	}
	return res, err
}

// fakeStore is an in-memory storage.Store.
type fakeStore struct {
	articles    []types.Article
	checkpoints map[string]time.Time
	insertErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{checkpoints: make(map[string]time.Time)}
}

func (s *fakeStore) InsertArticles(_ context.Context, articles []types.Article) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.articles = append(s.articles, articles...)
	return nil
}

func (s *fakeStore) QueryArticles(context.Context, types.NewsQuery) ([]types.Article, error) {
	return s.articles, nil
}

func (s *fakeStore) UniqueSources(context.Context) ([]string, error) { return nil, nil }

func (s *fakeStore) GetCheckpoint(_ context.Context, key string) (time.Time, error) {
	v, ok := s.checkpoints[key]
	if !ok {
		return time.Time{}, types.ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) SetCheckpoint(_ context.Context, key string, value time.Time) error {
	s.checkpoints[key] = value
	return nil
}

func (s *fakeStore) Close(context.Context) error { return nil }

type fakeAnnotator struct{ batches int }

func (a *fakeAnnotator) Annotate(_ context.Context, articles []types.Article) {
	a.batches++
	for i := range articles {
		articles[i].Sentiment = &types.Sentiment{Label: "NEUTRAL"}
	}
}

func resultWith(topic string, n int) *scraper.Result {
	res := &scraper.Result{Topic: topic}
	for i := 0; i < n; i++ {
		res.Articles = append(res.Articles, types.Article{
			Title: "t", URL: "https://example.com/" + topic, Source: "Reuters",
		})
	}
	return res
}

func testCfg(topics ...string) config.ScraperConfig {
	return config.ScraperConfig{
		Topics:           topics,
		MaxRetries:       3,
		RetryPause:       0,
		CheckpointWindow: 90 * 24 * time.Hour,
	}
}

var fixedNow = time.Date(2023, 3, 15, 13, 45, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestRunFreshCheckpoint(t *testing.T) {
	fs := newFakeScraper()
	fs.results["inflation"] = []*scraper.Result{resultWith("inflation", 2)}
	store := newFakeStore()
	ann := &fakeAnnotator{}

	r := NewRunner(fs, store, testCfg("inflation"), testLogger(),
		WithNow(fixedClock), WithAnnotator(ann))

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Articles != 2 || sum.Failed != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if len(store.articles) != 2 {
		t.Errorf("stored %d articles, want 2", len(store.articles))
	}
	if ann.batches != 1 {
		t.Errorf("annotator ran %d times, want 1", ann.batches)
	}
	if store.articles[0].Sentiment == nil {
		t.Error("articles persisted without sentiment")
	}

	// No checkpoint: the window opens the configured lookback ago.
	wantStart := time.Date(2022, 12, 16, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := fs.windows[0]; !got[0].Equal(wantStart) || !got[1].Equal(wantEnd) {
		t.Errorf("window = %v..%v, want %v..%v", got[0], got[1], wantStart, wantEnd)
	}

	// Checkpoint advances to today.
	if cp := store.checkpoints[types.CheckpointLastScraped]; !cp.Equal(wantEnd) {
		t.Errorf("checkpoint = %v, want %v", cp, wantEnd)
	}
}

func TestRunWindowFromExistingCheckpoint(t *testing.T) {
	fs := newFakeScraper()
	fs.results["gold"] = []*scraper.Result{resultWith("gold", 1)}
	store := newFakeStore()
	store.checkpoints[types.CheckpointLastScraped] = time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)

	r := NewRunner(fs, store, testCfg("gold"), testLogger(), WithNow(fixedClock))
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantStart := time.Date(2023, 3, 11, 0, 0, 0, 0, time.UTC)
	if got := fs.windows[0][0]; !got.Equal(wantStart) {
		t.Errorf("window start = %v, want day after checkpoint %v", got, wantStart)
	}
}

func TestRunUpToDateSkips(t *testing.T) {
	fs := newFakeScraper()
	store := newFakeStore()
	store.checkpoints[types.CheckpointLastScraped] = time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	r := NewRunner(fs, store, testCfg("gold"), testLogger(), WithNow(fixedClock))
	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sum.Skipped {
		t.Error("run not marked skipped")
	}
	if len(fs.windows) != 0 {
		t.Errorf("scraper invoked %d times on an up-to-date run", len(fs.windows))
	}
}

func TestRunRetriesEmptyTopic(t *testing.T) {
	fs := newFakeScraper()
	fs.results["oil"] = []*scraper.Result{
		{Topic: "oil"}, // empty first attempt
		resultWith("oil", 3),
	}
	store := newFakeStore()

	r := NewRunner(fs, store, testCfg("oil"), testLogger(), WithNow(fixedClock))
	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Topics[0].Attempts != 2 {
		t.Errorf("attempts = %d, want 2", sum.Topics[0].Attempts)
	}
	if sum.Articles != 3 {
		t.Errorf("articles = %d, want 3", sum.Articles)
	}
}

func TestRunPersistsPartialResultWithoutRetry(t *testing.T) {
	// A scrape interrupted mid-run hands back what it collected along
	// with the error. That partial batch must be persisted as-is, not
	// gambled away on retries that may come back empty.
	fs := newFakeScraper()
	fs.results["rates"] = []*scraper.Result{
		resultWith("rates", 5),
		{Topic: "rates"},
	}
	fs.errSeq["rates"] = []error{
		errors.New("fetch blocked on page 3"),
		errors.New("fetch blocked on page 0"),
	}
	store := newFakeStore()

	r := NewRunner(fs, store, testCfg("rates"), testLogger(), WithNow(fixedClock))
	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.articles) != 5 {
		t.Errorf("stored %d articles, want the 5 collected before the failure", len(store.articles))
	}
	if sum.Articles != 5 || sum.Failed != 0 {
		t.Errorf("summary = %+v, want 5 articles and no failed topics", sum)
	}
	if got := fs.calls["rates"]; got != 1 {
		t.Errorf("topic attempted %d times, want 1 (non-empty result accepted immediately)", got)
	}
}

func TestRunOneTopicFailingDoesNotAbort(t *testing.T) {
	fs := newFakeScraper()
	fs.errs["broken"] = errors.New("blocked")
	fs.results["gold"] = []*scraper.Result{resultWith("gold", 1)}
	store := newFakeStore()

	r := NewRunner(fs, store, testCfg("broken", "gold"), testLogger(), WithNow(fixedClock))
	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Failed != 1 {
		t.Errorf("failed = %d, want 1", sum.Failed)
	}
	if sum.Articles != 1 {
		t.Errorf("articles = %d, want 1 from the healthy topic", sum.Articles)
	}
	// The run still completed, so the checkpoint advances.
	if _, ok := store.checkpoints[types.CheckpointLastScraped]; !ok {
		t.Error("checkpoint not advanced after run with one failed topic")
	}
	// The broken topic was retried to exhaustion.
	if got := fs.calls["broken"]; got != 3 {
		t.Errorf("broken topic attempted %d times, want 3", got)
	}
}

func TestRunPersistFailureRecorded(t *testing.T) {
	fs := newFakeScraper()
	fs.results["gold"] = []*scraper.Result{resultWith("gold", 1)}
	store := newFakeStore()
	store.insertErr = errors.New("db down")

	r := NewRunner(fs, store, testCfg("gold"), testLogger(), WithNow(fixedClock))
	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Failed != 1 || sum.Articles != 0 {
		t.Errorf("summary = %+v, want one failed topic and zero articles", sum)
	}
}

func TestRunCancelledContext(t *testing.T) {
	fs := newFakeScraper()
	store := newFakeStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(fs, store, testCfg("gold"), testLogger(), WithNow(fixedClock))
	if _, err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}
