package sources

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/pevans/newsdigest/discovery"
	"github.com/pevans/newsdigest/scraper"
)

// Custom errors for profile operations
var (
	ErrProfileNotFound = errors.New("source profile not found")
	ErrInvalidProfile  = errors.New("invalid source profile")
)

// CSV date column headers.
const (
	DateColumnDate    = "Date"
	DateColumnPubDate = "PubDate"
)

// DefaultCap is the record cap for profiles that do not set one.
const DefaultCap = 20

// DefaultProfile is the profile run when none is named.
const DefaultProfile = "googlenews-rss"

// Profile describes one news source: where to fetch it, how to extract
// records from it and how its reports are named.
type Profile struct {
	Name       string             `json:"name" yaml:"name"`
	Title      string             `json:"title" yaml:"title"`
	URL        string             `json:"url" yaml:"url"`
	Format     string             `json:"format" yaml:"format"` // "html" or "feed"
	Prefix     string             `json:"prefix" yaml:"prefix"` // report filename prefix
	Cap        int                `json:"cap" yaml:"cap"`
	DateColumn string             `json:"date_column" yaml:"date_column"`
	WriteHTML  bool               `json:"write_html" yaml:"write_html"`
	Rule       scraper.RuleConfig `json:"rule" yaml:"rule"`
}

// WithDefaults fills in the optional fields: the title and prefix derive
// from the name, the cap defaults to DefaultCap and the date column to
// "Date".
func (p Profile) WithDefaults() Profile {
	if p.Title == "" {
		p.Title = p.Name
	}
	if p.Prefix == "" {
		p.Prefix = strings.ReplaceAll(p.Name, "-", "_")
	}
	if p.Cap == 0 {
		p.Cap = DefaultCap
	}
	if p.DateColumn == "" {
		p.DateColumn = DateColumnDate
	}
	return p
}

// Validate checks a profile after defaults have been applied.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if strings.ContainsAny(p.Name, " /\\") {
		return fmt.Errorf("%w: name %q must not contain spaces or slashes", ErrInvalidProfile, p.Name)
	}

	sourceURL, err := url.Parse(p.URL)
	if err != nil || p.URL == "" {
		return fmt.Errorf("%w: %s: invalid url %q", ErrInvalidProfile, p.Name, p.URL)
	}
	if sourceURL.Scheme != "http" && sourceURL.Scheme != "https" {
		return fmt.Errorf("%w: %s: url must use http or https scheme", ErrInvalidProfile, p.Name)
	}

	if !discovery.ValidFormat(p.Format) {
		return fmt.Errorf("%w: %s: format must be 'html' or 'feed'", ErrInvalidProfile, p.Name)
	}
	if p.Prefix == "" || strings.ContainsAny(p.Prefix, "/\\") {
		return fmt.Errorf("%w: %s: invalid prefix %q", ErrInvalidProfile, p.Name, p.Prefix)
	}
	if p.Cap <= 0 {
		return fmt.Errorf("%w: %s: cap must be positive", ErrInvalidProfile, p.Name)
	}
	if p.DateColumn != DateColumnDate && p.DateColumn != DateColumnPubDate {
		return fmt.Errorf("%w: %s: date_column must be 'Date' or 'PubDate'", ErrInvalidProfile, p.Name)
	}
	if err := p.Rule.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidProfile, p.Name, err)
	}

	return nil
}

// Builtin returns the three stock profiles: the Hacker News front page, the
// Google News web page and the Google News RSS feed.
func Builtin() []Profile {
	return []Profile{
		{
			Name:       "hackernews",
			Title:      "Hacker News Top Stories",
			URL:        "https://news.ycombinator.com/",
			Format:     discovery.FormatHTML,
			Prefix:     "news",
			Cap:        10,
			DateColumn: DateColumnDate,
			WriteHTML:  false,
			Rule:       scraper.NewCSSRule(".titleline > a", "https://news.ycombinator.com/"),
		},
		{
			Name:       "googlenews-web",
			Title:      "Google News Daily Digest",
			URL:        "https://news.google.com/topstories?hl=zh-TW&gl=TW&ceid=TW:zh-Hant",
			Format:     discovery.FormatHTML,
			Prefix:     "google_news",
			Cap:        20,
			DateColumn: DateColumnDate,
			WriteHTML:  true,
			Rule:       scraper.NewHrefPrefixRule("./articles/", "https://news.google.com"),
		},
		{
			Name:       "googlenews-rss",
			Title:      "Google News Daily Digest",
			URL:        "https://news.google.com/rss?hl=zh-TW&gl=TW&ceid=TW:zh-Hant",
			Format:     discovery.FormatFeed,
			Prefix:     "google_news_rss",
			Cap:        20,
			DateColumn: DateColumnPubDate,
			WriteHTML:  true,
			Rule:       scraper.NewTagRule("item"),
		},
	}
}

// Registry holds profiles by name.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry creates a registry holding the built-in profiles followed by
// extra. Later profiles replace earlier ones with the same name.
func NewRegistry(extra ...Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]Profile)}
	for _, p := range Builtin() {
		r.profiles[p.Name] = p
	}
	for _, p := range extra {
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add validates a profile (after defaults) and stores it, replacing any
// profile with the same name.
func (r *Registry) Add(p Profile) error {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return err
	}
	r.profiles[p.Name] = p
	return nil
}

// Lookup returns the named profile.
func (r *Registry) Lookup(name string) (Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return p, nil
}

// Names returns the profile names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// List returns all profiles sorted by name.
func (r *Registry) List() []Profile {
	profiles := make([]Profile, 0, len(r.profiles))
	for _, name := range r.Names() {
		profiles = append(profiles, r.profiles[name])
	}
	return profiles
}
