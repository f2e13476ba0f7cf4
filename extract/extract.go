// Package extract turns a parsed listing page or feed into an ordered list
// of news records, deduplicated by title and capped in length.
package extract

import (
	"iter"
	"net/url"
	"strings"
)

// Record is a single extracted headline destined for the CSV and HTML
// reports.
type Record struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published,omitempty"`
}

// Candidate is a raw link element selected by a Rule, before trimming and
// deduplication.
type Candidate struct {
	Title     string
	Link      string
	Published string
}

// Rule selects candidate link elements from a document, in document order.
type Rule interface {
	Candidates(doc *Document) iter.Seq[Candidate]
}

// Extract scans the candidates selected by rule and returns at most limit
// records. Candidates with an empty title or link are skipped, as are titles
// already accepted earlier in the same call (exact, case-sensitive match).
// The result is never nil.
func Extract(doc *Document, rule Rule, limit int) []Record {
	records := []Record{}
	if doc == nil || rule == nil || limit <= 0 {
		return records
	}

	seen := make(map[string]struct{})
	for c := range rule.Candidates(doc) {
		title := strings.TrimSpace(c.Title)
		if title == "" {
			continue
		}
		link := strings.TrimSpace(c.Link)
		if link == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}

		seen[title] = struct{}{}
		records = append(records, Record{
			Title:     title,
			Link:      link,
			Published: strings.TrimSpace(c.Published),
		})
		if len(records) >= limit {
			break
		}
	}

	return records
}

// ResolveLink turns href into an absolute link against base. When base is a
// bare origin, hrefs starting with "./" are resolved literally as
// base + href[1:], so "./articles/x" with base "https://news.google.com"
// becomes "https://news.google.com/articles/x". Every other relative href is
// joined with net/url. Absolute hrefs, and any href when base is empty, are
// returned unchanged.
func ResolveLink(base, href string) string {
	href = strings.TrimSpace(href)
	if base == "" || href == "" {
		return href
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	if strings.HasPrefix(href, "./") && isOrigin(baseURL) {
		return strings.TrimSuffix(base, "/") + href[1:]
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// isOrigin reports whether u is a scheme and host with no path beyond "/".
func isOrigin(u *url.URL) bool {
	return u.Scheme != "" && u.Host != "" &&
		(u.Path == "" || u.Path == "/") &&
		u.RawQuery == "" && u.Fragment == ""
}
