package sentiment

import (
	"context"
	"log/slog"
	"math"

	"github.com/starkadvisor/newshound/internal/types"
)

// Annotator attaches sentiment verdicts to articles. Classification
// failures never fail the batch; affected articles fall back to the
// neutral verdict.
type Annotator struct {
	classifier Classifier
	maxLen     int
	logger     *slog.Logger
}

// NewAnnotator creates an Annotator. maxLen caps the text sent to the
// classifier; longer descriptions are truncated first.
func NewAnnotator(c Classifier, maxLen int, logger *slog.Logger) *Annotator {
	return &Annotator{
		classifier: c,
		maxLen:     maxLen,
		logger:     logger.With("component", "annotator"),
	}
}

// Annotate classifies every article in place. Articles without a
// description get the neutral verdict without touching the classifier.
func (an *Annotator) Annotate(ctx context.Context, articles []types.Article) {
	for i := range articles {
		s := an.classify(ctx, &articles[i])
		articles[i].Sentiment = &s
	}
}

func (an *Annotator) classify(ctx context.Context, a *types.Article) types.Sentiment {
	if a.Description == "" {
		return Neutral()
	}

	s, err := an.classifier.Classify(ctx, truncate(a.Description, an.maxLen))
	if err != nil {
		an.logger.Warn("classification failed, using neutral",
			"url", a.URL, "error", err)
		return Neutral()
	}

	s.Score = roundScore(s.Score)
	return s
}

// truncate cuts text to at most n runes. Rune-based so multibyte
// characters are never split.
func truncate(text string, n int) string {
	if n <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// roundScore rounds to two decimal places.
func roundScore(s float64) float64 {
	return math.Round(s*100) / 100
}
