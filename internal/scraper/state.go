package scraper

// StopReason records why a topic's pagination loop ended. Every scrape
// ends with exactly one reason; callers use it to distinguish a clean
// finish from an anti-bot abort.
type StopReason int

const (
	// StopLimit means the article cap was reached.
	StopLimit StopReason = iota

	// StopEmpty means consecutive empty pages exhausted the streak
	// allowance, the usual sign that results ran out.
	StopEmpty

	// StopChallenge means a challenge interstitial was served. The
	// scrape keeps whatever was collected before it.
	StopChallenge

	// StopPagesExhausted means every page the cap allows was fetched.
	StopPagesExhausted
)

// String implements fmt.Stringer.
func (r StopReason) String() string {
	switch r {
	case StopLimit:
		return "limit_reached"
	case StopEmpty:
		return "empty_pages"
	case StopChallenge:
		return "challenged"
	case StopPagesExhausted:
		return "pages_exhausted"
	default:
		return "unknown"
	}
}
