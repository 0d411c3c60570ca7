// Package htmlconvert turns documentation landing pages into markdown.
// It isolates the main content region before conversion so navigation
// chrome does not pollute the document.
package htmlconvert

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

// Ensure Converter implements the port.
var _ driven.HTMLConverter = (*Converter)(nil)

// contentSelectors are tried in order; the first non-empty match is
// treated as the page's documentation body.
var contentSelectors = []string{
	"main",
	"article",
	"[role=main]",
	"#content",
	".content",
	"body",
}

// strippedSelectors are removed before conversion wherever the content
// was found.
var strippedSelectors = []string{
	"script", "style", "noscript", "nav", "header", "footer", "aside",
}

// Converter extracts and converts page content.
type Converter struct{}

// New creates a converter.
func New() *Converter {
	return &Converter{}
}

// Convert returns the page's main content as markdown.
func (c *Converter) Convert(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("htmlconvert: parse page: %w", err)
	}

	for _, sel := range strippedSelectors {
		doc.Find(sel).Remove()
	}

	fragment := html
	for _, sel := range contentSelectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 || strings.TrimSpace(match.Text()) == "" {
			continue
		}
		if outer, err := goquery.OuterHtml(match); err == nil {
			logger.Debug("htmlconvert: using %q as content root", sel)
			fragment = outer
		}
		break
	}

	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("htmlconvert: convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
