// Package dates converts the heterogeneous date text found on news
// listings ("2 days ago", "24 Mar 2023", "2023-03-24") into canonical
// calendar dates.
package dates

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// absoluteLayouts are tried in order for non-relative inputs.
var absoluteLayouts = []string{
	"2006-01-02",
	"2 Jan 2006",
	"2 January 2006",
}

// Normalizer parses raw date text relative to an injectable clock.
type Normalizer struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithNow overrides the reference clock. Tests pin it to a fixed date.
func WithNow(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// New creates a Normalizer backed by the wall clock.
func New(logger *slog.Logger, opts ...Option) *Normalizer {
	n := &Normalizer{
		now:    time.Now,
		logger: logger.With("component", "date_normalizer"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Parse converts raw date text to a calendar date. The second return
// value is false when the input is empty or unrecognized; parse
// failures are logged, never raised.
func (n *Normalizer) Parse(raw string) (time.Time, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return time.Time{}, false
	}

	today := midnight(n.now())

	if strings.Contains(text, "ago") {
		text = strings.TrimSpace(strings.ReplaceAll(text, "ago", ""))
	}

	switch {
	case containsAny(text, "hour", "minute", "second"):
		return today, true

	case strings.Contains(text, "day"):
		if qty, ok := n.quantity(text); ok {
			return today.AddDate(0, 0, -qty), true
		}
		return time.Time{}, false

	case strings.Contains(text, "week"):
		if qty, ok := n.quantity(text); ok {
			return today.AddDate(0, 0, -7*qty), true
		}
		return time.Time{}, false

	case strings.Contains(text, "month"):
		if qty, ok := n.quantity(text); ok {
			return addMonths(today, -qty), true
		}
		return time.Time{}, false

	case strings.Contains(text, "year"):
		if qty, ok := n.quantity(text); ok {
			return addMonths(today, -12*qty), true
		}
		return time.Time{}, false
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return midnight(t), true
		}
	}

	n.logger.Debug("unrecognized date text", "text", raw)
	return time.Time{}, false
}

// quantity extracts the leading integer of a relative expression.
// Multi-word quantities ("a day ago") are a known limitation and fail
// here the same way any garbage does.
func (n *Normalizer) quantity(text string) (int, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, false
	}
	qty, err := strconv.Atoi(fields[0])
	if err != nil || qty < 0 {
		n.logger.Debug("unparseable relative quantity", "text", text)
		return 0, false
	}
	return qty, true
}

// addMonths shifts by whole calendar months, clamping the day to the
// target month's length (Mar 31 minus 1 month is Feb 28/29, not a
// normalized Mar 2/3).
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
