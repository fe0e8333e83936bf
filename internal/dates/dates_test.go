package dates

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixed reference clock: Wed 15 Mar 2023.
func fixedNow() time.Time {
	return time.Date(2023, time.March, 15, 13, 45, 0, 0, time.UTC)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRelative(t *testing.T) {
	n := New(discard, WithNow(fixedNow))

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2 hours ago", date(2023, time.March, 15)},
		{"30 minutes ago", date(2023, time.March, 15)},
		{"5 seconds ago", date(2023, time.March, 15)},
		{"1 day ago", date(2023, time.March, 14)},
		{"2 days ago", date(2023, time.March, 13)},
		{"1 week ago", date(2023, time.March, 8)},
		{"3 weeks ago", date(2023, time.February, 22)},
		{"1 month ago", date(2023, time.February, 15)},
		{"2 months ago", date(2023, time.January, 15)},
		{"1 year ago", date(2022, time.March, 15)},
		{"  2 DAYS AGO  ", date(2023, time.March, 13)},
	}

	for _, c := range cases {
		got, ok := n.Parse(c.in)
		if !ok {
			t.Errorf("Parse(%q): unexpected failure", c.in)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseMonthIsCalendarAware(t *testing.T) {
	// Jan 31 minus 1 month must land on Dec 31, and Mar 31 minus 1
	// month on the last day of February, never a 30-day approximation.
	cases := []struct {
		now  time.Time
		in   string
		want time.Time
	}{
		{time.Date(2023, time.January, 31, 9, 0, 0, 0, time.UTC), "1 month ago", date(2022, time.December, 31)},
		{time.Date(2023, time.March, 31, 9, 0, 0, 0, time.UTC), "1 month ago", date(2023, time.February, 28)},
		{time.Date(2024, time.March, 31, 9, 0, 0, 0, time.UTC), "1 month ago", date(2024, time.February, 29)},
		{time.Date(2024, time.February, 29, 9, 0, 0, 0, time.UTC), "1 year ago", date(2023, time.February, 28)},
	}

	for _, c := range cases {
		now := c.now
		n := New(discard, WithNow(func() time.Time { return now }))
		got, ok := n.Parse(c.in)
		if !ok {
			t.Fatalf("Parse(%q) at %s: unexpected failure", c.in, c.now)
		}
		if !got.Equal(c.want) {
			t.Errorf("Parse(%q) at %s = %s, want %s", c.in, c.now.Format(time.DateOnly), got, c.want)
		}
	}
}

func TestParseAbsolute(t *testing.T) {
	n := New(discard, WithNow(fixedNow))

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2023-03-24", date(2023, time.March, 24)},
		{"24 Mar 2023", date(2023, time.March, 24)},
		{"24 March 2023", date(2023, time.March, 24)},
		{"1 Feb 2020", date(2020, time.February, 1)},
	}

	for _, c := range cases {
		got, ok := n.Parse(c.in)
		if !ok {
			t.Errorf("Parse(%q): unexpected failure", c.in)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	n := New(discard, WithNow(fixedNow))

	for _, in := range []string{
		"",
		"   ",
		"garbage",
		"yesterday",
		"a day ago", // multi-word quantities are a known limitation
		"99/99/9999",
	} {
		if got, ok := n.Parse(in); ok {
			t.Errorf("Parse(%q) = %s, want rejection", in, got)
		}
	}
}
