// Package parser turns search-result HTML into raw article records.
// Extraction is selector-driven so a markup rotation is a config
// change, not a code change.
package parser

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/starkadvisor/newshound/internal/types"
)

// Extractor pulls RawArticles out of listing pages.
type Extractor struct {
	selectors Selectors
	logger    *slog.Logger
}

// NewExtractor creates an Extractor with the given selector set.
func NewExtractor(selectors Selectors, logger *slog.Logger) *Extractor {
	return &Extractor{
		selectors: selectors,
		logger:    logger.With("component", "extractor"),
	}
}

// Extract parses the page once and walks each result container,
// reading fields relative to it. Missing fields leave their slot
// empty; a container with no resolvable URL is dropped because a
// record without a link cannot be stored or deduplicated. An empty
// page yields an empty slice, not an error.
func (e *Extractor) Extract(pageHTML string) ([]types.RawArticle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, &types.ParseError{Selector: e.selectors.Container.Expr, Err: err}
	}

	var articles []types.RawArticle
	dropped := 0

	e.eachContainer(doc, func(sel *goquery.Selection) {
		rawURL := cleanResultURL(e.extractField(sel, e.selectors.URL))
		if rawURL == "" {
			dropped++
			return
		}
		articles = append(articles, types.RawArticle{
			Title:       e.extractField(sel, e.selectors.Title),
			URL:         rawURL,
			Source:      e.extractField(sel, e.selectors.Source),
			RawDate:     e.extractField(sel, e.selectors.Date),
			Description: e.extractField(sel, e.selectors.Description),
		})
	})

	if dropped > 0 {
		e.logger.Debug("dropped containers without URL", "count", dropped)
	}
	return articles, nil
}

// eachContainer iterates result containers using the configured
// container selector.
func (e *Extractor) eachContainer(doc *goquery.Document, fn func(*goquery.Selection)) {
	switch e.selectors.Container.Type {
	case TypeXPath:
		if len(doc.Nodes) == 0 {
			return
		}
		nodes, err := htmlquery.QueryAll(doc.Nodes[0], e.selectors.Container.Expr)
		if err != nil {
			e.logger.Warn("invalid container xpath", "expr", e.selectors.Container.Expr, "error", err)
			return
		}
		for _, node := range nodes {
			fn(newSelection(doc, node))
		}
	default:
		doc.Find(e.selectors.Container.Expr).Each(func(_ int, sel *goquery.Selection) {
			fn(sel)
		})
	}
}

// extractField reads a single field relative to a container.
func (e *Extractor) extractField(container *goquery.Selection, fs FieldSelector) string {
	if fs.Expr == "" {
		return ""
	}

	switch fs.Type {
	case TypeXPath:
		if len(container.Nodes) == 0 {
			return ""
		}
		node, err := htmlquery.Query(container.Nodes[0], fs.Expr)
		if err != nil {
			e.logger.Warn("invalid xpath", "expr", fs.Expr, "error", err)
			return ""
		}
		if node == nil {
			return ""
		}
		switch fs.Attr {
		case "", "text":
			return strings.TrimSpace(htmlquery.InnerText(node))
		default:
			return strings.TrimSpace(htmlquery.SelectAttr(node, fs.Attr))
		}
	default:
		match := container.Find(fs.Expr).First()
		if match.Length() == 0 {
			return ""
		}
		switch fs.Attr {
		case "", "text":
			return strings.TrimSpace(match.Text())
		default:
			val, _ := match.Attr(fs.Attr)
			return strings.TrimSpace(val)
		}
	}
}

// newSelection wraps a bare html.Node in a goquery Selection so field
// selectors work uniformly regardless of the container language.
func newSelection(doc *goquery.Document, node *html.Node) *goquery.Selection {
	return doc.FindNodes(node)
}

// cleanResultURL unwraps the engine's redirect links. Result anchors
// often point at /url?q=<target>&... instead of the article itself;
// the real destination is the q parameter.
func cleanResultURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Path == "/url" {
		if target := u.Query().Get("q"); target != "" {
			return target
		}
	}
	return raw
}
