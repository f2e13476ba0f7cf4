package extract

import (
	"iter"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// PublishedLayout is the layout feed publish times are rendered with.
const PublishedLayout = "2006-01-02 15:04"

// CSSSelector selects the elements matched by a CSS selector, e.g.
// ".titleline > a" on the Hacker News front page. The element text is the
// title and its href attribute the link.
type CSSSelector struct {
	Selector string
	// Base resolves relative hrefs (see ResolveLink). Empty means the
	// document URL.
	Base string
}

// Candidates implements Rule.
func (r CSSSelector) Candidates(doc *Document) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if doc == nil || doc.HTML == nil || r.Selector == "" {
			return
		}
		base := baseOr(r.Base, doc.URL)
		doc.HTML.Find(r.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, ok := s.Attr("href")
			if !ok {
				return true
			}
			return yield(Candidate{
				Title: s.Text(),
				Link:  ResolveLink(base, href),
			})
		})
	}
}

// HrefPrefix selects anchors whose href starts with Prefix, e.g.
// "./articles/" on the Google News web page, and resolves them against Base
// (or the document URL when Base is empty).
type HrefPrefix struct {
	Prefix string
	Base   string
}

// Candidates implements Rule.
func (r HrefPrefix) Candidates(doc *Document) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if doc == nil || doc.HTML == nil || r.Prefix == "" {
			return
		}
		base := baseOr(r.Base, doc.URL)
		doc.HTML.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, _ := s.Attr("href")
			if !strings.HasPrefix(href, r.Prefix) {
				return true
			}
			return yield(Candidate{
				Title: s.Text(),
				Link:  ResolveLink(base, href),
			})
		})
	}
}

// TagMatch selects elements by tag name. On a feed document the item tags
// ("item" for RSS, "entry" for Atom) select the feed's items; on an HTML
// document every element with that tag name is a candidate, linked by its
// own href or the first href inside it.
type TagMatch struct {
	Tag string
}

// Candidates implements Rule.
func (r TagMatch) Candidates(doc *Document) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if doc == nil || r.Tag == "" {
			return
		}

		if doc.Feed != nil {
			if !isItemTag(r.Tag) {
				return
			}
			for _, item := range doc.Feed.Items {
				if item == nil {
					continue
				}
				if !yield(feedCandidate(item)) {
					return
				}
			}
			return
		}

		if doc.HTML == nil {
			return
		}
		doc.HTML.Find(r.Tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, ok := s.Attr("href")
			if !ok {
				href, ok = s.Find("a[href]").First().Attr("href")
			}
			if !ok {
				return true
			}
			return yield(Candidate{
				Title: s.Text(),
				Link:  ResolveLink(doc.URL, href),
			})
		})
	}
}

func baseOr(base, docURL string) string {
	if base != "" {
		return base
	}
	return docURL
}

func isItemTag(tag string) bool {
	tag = strings.ToLower(tag)
	return tag == "item" || tag == "entry"
}

// feedCandidate maps a feed item to a candidate. gofeed normalises RSS
// <pubDate> and Atom <published>/<updated> into parsed times; when neither
// parses, the raw string is kept.
func feedCandidate(item *gofeed.Item) Candidate {
	c := Candidate{
		Title: item.Title,
		Link:  item.Link,
	}

	switch {
	case item.PublishedParsed != nil:
		c.Published = formatPublished(*item.PublishedParsed)
	case item.UpdatedParsed != nil:
		c.Published = formatPublished(*item.UpdatedParsed)
	case item.Published != "":
		c.Published = item.Published
	default:
		c.Published = item.Updated
	}

	return c
}

func formatPublished(t time.Time) string {
	return t.UTC().Format(PublishedLayout)
}
