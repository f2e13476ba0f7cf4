package extract

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Document is a fetched listing page or feed that rules select candidates
// from. Exactly one of HTML or Feed is set.
type Document struct {
	URL  string
	HTML *goquery.Document
	Feed *gofeed.Feed
}

// NewHTMLDocument parses an HTML listing page.
func NewHTMLDocument(r io.Reader, url string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{URL: url, HTML: doc}, nil
}

// NewFeedDocument parses an RSS or Atom feed. The gofeed library detects the
// format, so both are handled by the same rules.
func NewFeedDocument(r io.Reader, url string) (*Document, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return &Document{URL: url, Feed: feed}, nil
}
