// Package discovery fetches news listing pages and feeds over HTTP and parses
// them into documents for extraction.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pevans/newsdigest/extract"
)

// Document formats a source can be fetched as.
const (
	FormatHTML = "html"
	FormatFeed = "feed"
)

const (
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies newsdigest to the sites it reads.
	DefaultUserAgent = "newsdigest/1.0 (+daily tech news archivist)"

	maxBodyBytes = 10 << 20 // 10MB
)

// ErrUnknownFormat is returned when asked to fetch a format other than html
// or feed.
var ErrUnknownFormat = errors.New("unknown document format")

// Fetcher retrieves and parses source documents.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher with the given timeout and User-Agent. Zero
// values fall back to DefaultTimeout and DefaultUserAgent.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewFetcherWithClient(&http.Client{Timeout: timeout}, userAgent)
}

// NewFetcherWithClient creates a fetcher around a custom HTTP client (for
// testing).
func NewFetcherWithClient(client *http.Client, userAgent string) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
	}
}

// ValidFormat reports whether format is one the fetcher understands.
func ValidFormat(format string) bool {
	return format == FormatHTML || format == FormatFeed
}

// Fetch retrieves url and parses it according to format.
func (f *Fetcher) Fetch(ctx context.Context, url, format string) (*extract.Document, error) {
	switch format {
	case FormatHTML:
		return f.FetchHTML(ctx, url)
	case FormatFeed:
		return f.FetchFeed(ctx, url)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FetchHTML fetches an HTML page and parses it with goquery.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (*extract.Document, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return extract.NewHTMLDocument(io.LimitReader(body, maxBodyBytes), url)
}

// FetchFeed fetches an RSS or Atom feed and parses it with gofeed.
func (f *Fetcher) FetchFeed(ctx context.Context, url string) (*extract.Document, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return extract.NewFeedDocument(io.LimitReader(body, maxBodyBytes), url)
}

// get performs the GET request and returns the body of a 200 response. The
// caller closes it.
func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	return resp.Body, nil
}
