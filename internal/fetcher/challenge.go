package fetcher

import (
	"strings"
)

// challengeMarkers are phrases that only appear on anti-automation
// interstitials. The first is the classic unusual-traffic page; the
// rest cover its captcha variants.
var challengeMarkers = []string{
	"Our systems have detected unusual traffic",
	"detected unusual traffic from your computer network",
	"/sorry/index",
	"g-recaptcha",
}

// IsChallenge reports whether a response body is a challenge page
// instead of real results. Challenge pages never contain usable data
// and re-fetching them makes detection worse, so callers abort the
// topic rather than retry.
func IsChallenge(html string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}
