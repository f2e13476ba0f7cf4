package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hackerNewsPage = `<html><body><table>
<tr class="athing"><td class="title"><span class="titleline">
  <a href="https://go.dev/blog/go1.26">Go 1.26 is released</a>
  <span class="sitebit comhead">(<a href="from?site=go.dev"><span class="sitestr">go.dev</span></a>)</span>
</span></td></tr>
<tr class="athing"><td class="title"><span class="titleline">
  <a href="item?id=4242">Ask HN: What are you working on?</a>
</span></td></tr>
<tr class="athing"><td class="title"><span class="titleline">
  <a href="https://example.com/sqlite">SQLite internals</a>
</span></td></tr>
</table></body></html>`

const googleNewsPage = `<html><body>
<article>
  <a href="./articles/CBMiAAA?hl=zh-TW"><img src="x.png"></a>
  <a href="./articles/CBMiAAA?hl=zh-TW">颱風動態更新</a>
  <a href="./publications/xyz">中央社</a>
</article>
<article>
  <a href="./articles/CBMiBBB?hl=zh-TW">AI chips &amp; the supply chain</a>
  <a href="./articles/CBMiBBB?hl=zh-TW&amp;x=1">AI chips &amp; the supply chain</a>
</article>
<a href="https://accounts.google.com">Sign in</a>
</body></html>`

const googleNewsRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Top stories - Google News</title>
<link>https://news.google.com/?hl=zh-TW</link>
<item>
  <title>First headline - Publisher A</title>
  <link>https://news.google.com/rss/articles/AAA?oc=5</link>
  <pubDate>Fri, 16 Oct 2026 03:04:05 GMT</pubDate>
</item>
<item>
  <title>Second headline - Publisher B</title>
  <link>https://news.google.com/rss/articles/BBB?oc=5</link>
  <pubDate>not a date</pubDate>
</item>
<item>
  <title>First headline - Publisher A</title>
  <link>https://news.google.com/rss/articles/CCC?oc=5</link>
</item>
</channel></rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Blog</title>
  <entry>
    <title>Atom entry</title>
    <link href="https://example.com/atom-entry"/>
    <updated>2026-10-15T12:30:00Z</updated>
  </entry>
</feed>`

func htmlDoc(t *testing.T, page, url string) *Document {
	doc, err := NewHTMLDocument(strings.NewReader(page), url)
	require.NoError(t, err)
	return doc
}

func feedDoc(t *testing.T, body, url string) *Document {
	doc, err := NewFeedDocument(strings.NewReader(body), url)
	require.NoError(t, err)
	return doc
}

// TestCSSSelector_HackerNews verifies story links are selected in order and
// relative item links are resolved
func TestCSSSelector_HackerNews(t *testing.T) {
	doc := htmlDoc(t, hackerNewsPage, "https://news.ycombinator.com/")
	rule := CSSSelector{Selector: ".titleline > a", Base: "https://news.ycombinator.com/"}

	records := Extract(doc, rule, 10)

	require.Len(t, records, 3)
	assert.Equal(t, Record{Title: "Go 1.26 is released", Link: "https://go.dev/blog/go1.26"}, records[0])
	assert.Equal(t, "https://news.ycombinator.com/item?id=4242", records[1].Link)
	assert.Equal(t, "SQLite internals", records[2].Title)
}

// TestCSSSelector_NoBase verifies relative hrefs resolve against the
// document URL when the rule has no base
func TestCSSSelector_NoBase(t *testing.T) {
	doc := htmlDoc(t, hackerNewsPage, "https://news.ycombinator.com/")

	records := Extract(doc, CSSSelector{Selector: ".titleline > a"}, 10)

	require.Len(t, records, 3)
	assert.Equal(t, "https://news.ycombinator.com/item?id=4242", records[1].Link)
}

// TestCSSSelector_NoBaseDotRelative verifies "./" hrefs on a page with a
// path and query resolve to the site, not the page URL
func TestCSSSelector_NoBaseDotRelative(t *testing.T) {
	page := `<span class="titleline"><a href="./item?id=1">Show HN: A tiny database</a></span>`
	doc := htmlDoc(t, page, "https://news.ycombinator.com/news?p=2")

	records := Extract(doc, CSSSelector{Selector: ".titleline > a"}, 10)

	require.Len(t, records, 1)
	assert.Equal(t, "https://news.ycombinator.com/item?id=1", records[0].Link)
}

// TestCSSSelector_NoBaseNoURL verifies hrefs are kept verbatim when neither
// a base nor a document URL is known
func TestCSSSelector_NoBaseNoURL(t *testing.T) {
	doc := htmlDoc(t, hackerNewsPage, "")

	records := Extract(doc, CSSSelector{Selector: ".titleline > a"}, 10)

	require.Len(t, records, 3)
	assert.Equal(t, "item?id=4242", records[1].Link)
}

// TestHrefPrefix_NoBase verifies the document URL is used when the rule has
// no base
func TestHrefPrefix_NoBase(t *testing.T) {
	doc := htmlDoc(t, googleNewsPage, "https://news.google.com/topstories?hl=zh-TW&gl=TW&ceid=TW:zh-Hant")

	records := Extract(doc, HrefPrefix{Prefix: "./articles/"}, 20)

	require.Len(t, records, 2)
	assert.Equal(t, "https://news.google.com/articles/CBMiAAA?hl=zh-TW", records[0].Link)
	assert.Equal(t, "https://news.google.com/articles/CBMiBBB?hl=zh-TW", records[1].Link)
}

// TestCSSSelector_Cap verifies the cap applies to selector matches
func TestCSSSelector_Cap(t *testing.T) {
	doc := htmlDoc(t, hackerNewsPage, "")

	records := Extract(doc, CSSSelector{Selector: ".titleline > a"}, 1)

	assert.Equal(t, []string{"Go 1.26 is released"}, titlesOf(records))
}

// TestCSSSelector_NoMatches verifies an empty result when nothing matches
func TestCSSSelector_NoMatches(t *testing.T) {
	doc := htmlDoc(t, "<html><body><p>maintenance</p></body></html>", "")

	assert.Empty(t, Extract(doc, CSSSelector{Selector: ".titleline > a"}, 10))
}

// TestHrefPrefix_GoogleNews verifies prefix matching, empty image anchors,
// title dedup and literal link resolution
func TestHrefPrefix_GoogleNews(t *testing.T) {
	doc := htmlDoc(t, googleNewsPage, "https://news.google.com/topstories")
	rule := HrefPrefix{Prefix: "./articles/", Base: "https://news.google.com"}

	records := Extract(doc, rule, 20)

	require.Len(t, records, 2)
	assert.Equal(t, Record{
		Title: "颱風動態更新",
		Link:  "https://news.google.com/articles/CBMiAAA?hl=zh-TW",
	}, records[0])
	assert.Equal(t, "AI chips & the supply chain", records[1].Title)
	assert.Equal(t, "https://news.google.com/articles/CBMiBBB?hl=zh-TW", records[1].Link)
}

// TestHrefPrefix_FeedDocument verifies HTML rules select nothing from feeds
func TestHrefPrefix_FeedDocument(t *testing.T) {
	doc := feedDoc(t, googleNewsRSS, "")

	assert.Empty(t, Extract(doc, HrefPrefix{Prefix: "./articles/"}, 20))
	assert.Empty(t, Extract(doc, CSSSelector{Selector: "a"}, 20))
}

// TestTagMatch_RSSItems verifies feed items are extracted with dates
func TestTagMatch_RSSItems(t *testing.T) {
	doc := feedDoc(t, googleNewsRSS, "https://news.google.com/rss")

	records := Extract(doc, TagMatch{Tag: "item"}, 20)

	require.Len(t, records, 2, "duplicate title dropped")
	assert.Equal(t, Record{
		Title:     "First headline - Publisher A",
		Link:      "https://news.google.com/rss/articles/AAA?oc=5",
		Published: "2026-10-16 03:04",
	}, records[0])
	assert.Equal(t, "not a date", records[1].Published, "unparsable dates are kept raw")
}

// TestTagMatch_AtomEntries verifies Atom entries and the updated fallback
func TestTagMatch_AtomEntries(t *testing.T) {
	doc := feedDoc(t, atomFeed, "")

	records := Extract(doc, TagMatch{Tag: "entry"}, 20)

	require.Len(t, records, 1)
	assert.Equal(t, "https://example.com/atom-entry", records[0].Link)
	assert.Equal(t, "2026-10-15 12:30", records[0].Published)
}

// TestTagMatch_UnknownFeedTag verifies non-item tags select nothing on feeds
func TestTagMatch_UnknownFeedTag(t *testing.T) {
	doc := feedDoc(t, googleNewsRSS, "")

	assert.Empty(t, Extract(doc, TagMatch{Tag: "channel"}, 20))
}

// TestTagMatch_HTMLElements verifies tag matching on HTML documents
func TestTagMatch_HTMLElements(t *testing.T) {
	page := `<html><body>
<h3><a href="/a">Alpha</a></h3>
<h3>No link here</h3>
<h3><a href="https://example.org/b">Beta</a></h3>
</body></html>`
	doc := htmlDoc(t, page, "https://example.com/news")

	records := Extract(doc, TagMatch{Tag: "h3"}, 10)

	require.Len(t, records, 2)
	assert.Equal(t, Record{Title: "Alpha", Link: "https://example.com/a"}, records[0])
	assert.Equal(t, "https://example.org/b", records[1].Link)
}

// TestTagMatch_HTMLDotRelative verifies "./" hrefs resolve against the page
// URL without carrying its path or query into the link
func TestTagMatch_HTMLDotRelative(t *testing.T) {
	page := `<html><body>
<h3><a href="./articles/xyz">颱風動態更新</a></h3>
<h3><a href="./articles/abc?hl=zh-TW">AI chips</a></h3>
</body></html>`
	doc := htmlDoc(t, page, "https://news.google.com/topstories?hl=zh-TW&gl=TW&ceid=TW:zh-Hant")

	records := Extract(doc, TagMatch{Tag: "h3"}, 10)

	require.Len(t, records, 2)
	assert.Equal(t, "https://news.google.com/articles/xyz", records[0].Link)
	assert.Equal(t, "https://news.google.com/articles/abc?hl=zh-TW", records[1].Link)
}

// TestNewFeedDocument_Invalid verifies garbage input is a parse error
func TestNewFeedDocument_Invalid(t *testing.T) {
	_, err := NewFeedDocument(strings.NewReader("this is not a feed"), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse feed")
}
