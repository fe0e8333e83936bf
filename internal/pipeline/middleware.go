package pipeline

import (
	"net/url"
	"strings"
	"sync"

	"github.com/starkadvisor/newshound/internal/types"
)

// TrimMiddleware trims whitespace from all string fields.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(a *types.Article) (*types.Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	a.URL = strings.TrimSpace(a.URL)
	a.Source = strings.TrimSpace(a.Source)
	a.Category = strings.TrimSpace(a.Category)
	a.Description = strings.TrimSpace(a.Description)
	return a, nil
}

// RequiredFieldsMiddleware drops articles missing title, URL, or
// source. A missing date is allowed; downstream consumers treat it
// as unknown.
type RequiredFieldsMiddleware struct{}

func (m *RequiredFieldsMiddleware) Name() string { return "required_fields" }

func (m *RequiredFieldsMiddleware) Process(a *types.Article) (*types.Article, error) {
	if !a.Valid() {
		return nil, nil
	}
	return a, nil
}

// DedupMiddleware drops articles whose canonical URL was already seen.
// Scope is one middleware instance, so dedup covers a single run; the
// same story fetched by a later run is stored again.
type DedupMiddleware struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDedupMiddleware creates a dedup middleware with an empty seen set.
func NewDedupMiddleware() *DedupMiddleware {
	return &DedupMiddleware{seen: make(map[string]struct{})}
}

func (m *DedupMiddleware) Name() string { return "dedup" }

func (m *DedupMiddleware) Process(a *types.Article) (*types.Article, error) {
	key := CanonicalizeURL(a.URL)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.seen[key]; exists {
		return nil, nil
	}
	m.seen[key] = struct{}{}
	return a, nil
}

// Seen returns the number of distinct URLs observed so far.
func (m *DedupMiddleware) Seen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}

// CanonicalizeURL normalizes a URL for dedup comparison: scheme and
// host are lowercased, the fragment is removed, and a trailing slash
// is trimmed. Query strings are kept because some outlets key the
// story on them.
func CanonicalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
