package acquire

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

// Page is the extracted content for one URL.
type Page struct {
	Title    string
	Content  string
	Metadata domain.ResultMetadata
}

// Scraper captures a single acquisition method (Firecrawl, readable, transcript).
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, pageURL string) (*Page, error)
}

// Acquirer fetches full text for candidate URLs. Video URLs are routed only
// to the transcript scraper; everything else walks the generic scrapers in
// configured order and takes the first success. Total failure is a valid
// outcome marked on the result, never an error to the caller.
type Acquirer struct {
	generic []Scraper
	video   Scraper
	logger  *slog.Logger
}

// NewAcquirer wires the generic scraper chain and the optional video scraper.
func NewAcquirer(generic []Scraper, video Scraper, logger *slog.Logger) *Acquirer {
	return &Acquirer{generic: generic, video: video, logger: logger}
}

// Fetch resolves one URL to content or a failure marker.
func (a *Acquirer) Fetch(ctx context.Context, pageURL string) domain.SearchResult {
	failed := domain.SearchResult{URL: pageURL, ScrapeStatus: domain.ScrapeFailure}

	chain := a.generic
	if IsVideoURL(pageURL) {
		if a.video == nil {
			return failed
		}
		chain = []Scraper{a.video}
	}

	for _, scraper := range chain {
		page, err := scraper.Scrape(ctx, pageURL)
		if err != nil {
			a.warn("scraper failed", "scraper", scraper.Name(), "url", pageURL, "error", err)
			continue
		}
		if page == nil || page.Content == "" {
			a.warn("scraper returned no content", "scraper", scraper.Name(), "url", pageURL)
			continue
		}
		return domain.SearchResult{
			URL:          pageURL,
			Title:        page.Title,
			Content:      page.Content,
			Source:       scraper.Name(),
			ScrapeStatus: domain.ScrapeSuccess,
			Metadata:     page.Metadata,
		}
	}

	a.warn("all scrapers failed", "url", pageURL)
	return failed
}

// UpdateResults backfills full text onto search results. A scrape failure
// keeps whatever snippet the result already had.
func (a *Acquirer) UpdateResults(ctx context.Context, results []domain.SearchResult) []domain.SearchResult {
	updated := make([]domain.SearchResult, 0, len(results))
	for _, result := range results {
		if result.URL == "" {
			result.ScrapeStatus = domain.ScrapeFailure
			updated = append(updated, result)
			continue
		}

		fetched := a.Fetch(ctx, result.URL)
		if fetched.ScrapeStatus != domain.ScrapeSuccess {
			result.ScrapeStatus = domain.ScrapeFailure
			updated = append(updated, result)
			continue
		}

		result.ScrapeStatus = domain.ScrapeSuccess
		result.Content = fetched.Content
		if fetched.Title != "" {
			result.Title = fetched.Title
		}
		if fetched.Metadata != (domain.ResultMetadata{}) {
			result.Metadata = fetched.Metadata
		}
		updated = append(updated, result)
	}
	return updated
}

// IsVideoURL reports whether the URL points at a known video host.
func IsVideoURL(pageURL string) bool {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	switch host {
	case "youtube.com":
		return parsed.Query().Get("v") != ""
	case "youtu.be":
		return strings.Trim(parsed.Path, "/") != ""
	}
	return false
}

// VideoID extracts the video identifier from a video URL, or "".
func VideoID(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	switch host {
	case "youtube.com":
		return parsed.Query().Get("v")
	case "youtu.be":
		return strings.Trim(parsed.Path, "/")
	}
	return ""
}

func (a *Acquirer) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
