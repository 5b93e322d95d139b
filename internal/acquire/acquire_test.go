package acquire

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

type stubScraper struct {
	name  string
	page  *Page
	err   error
	calls int
}

func (s *stubScraper) Name() string { return s.name }

func (s *stubScraper) Scrape(context.Context, string) (*Page, error) {
	s.calls++
	return s.page, s.err
}

func TestFetchUsesFirstSuccessfulScraper(t *testing.T) {
	t.Parallel()

	broken := &stubScraper{name: "primary", err: errors.New("blocked")}
	working := &stubScraper{name: "secondary", page: &Page{Title: "Story", Content: "full text"}}

	acq := NewAcquirer([]Scraper{broken, working}, nil, nil)
	result := acq.Fetch(context.Background(), "https://example.org/story")

	assert.Equal(t, domain.ScrapeSuccess, result.ScrapeStatus)
	assert.Equal(t, "full text", result.Content)
	assert.Equal(t, "secondary", result.Source)
	assert.Equal(t, 1, broken.calls)
}

func TestFetchReturnsFailureMarkerWhenAllScrapersFail(t *testing.T) {
	t.Parallel()

	acq := NewAcquirer([]Scraper{
		&stubScraper{name: "a", err: errors.New("timeout")},
		&stubScraper{name: "b", page: &Page{}},
	}, nil, nil)

	result := acq.Fetch(context.Background(), "https://example.org/gone")
	assert.Equal(t, domain.ScrapeFailure, result.ScrapeStatus)
	assert.Equal(t, "https://example.org/gone", result.URL)
	assert.Empty(t, result.Content)
}

func TestFetchRoutesVideoURLsToTranscriptScraperOnly(t *testing.T) {
	t.Parallel()

	generic := &stubScraper{name: "generic", page: &Page{Content: "page"}}
	video := &stubScraper{name: "transcript", page: &Page{Content: "spoken words"}}

	acq := NewAcquirer([]Scraper{generic}, video, nil)
	result := acq.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc123")

	require.Equal(t, domain.ScrapeSuccess, result.ScrapeStatus)
	assert.Equal(t, "spoken words", result.Content)
	assert.Equal(t, 0, generic.calls, "generic scrapers must not see video URLs")
	assert.Equal(t, 1, video.calls)
}

func TestUpdateResultsKeepsSnippetOnScrapeFailure(t *testing.T) {
	t.Parallel()

	acq := NewAcquirer([]Scraper{&stubScraper{name: "a", err: errors.New("down")}}, nil, nil)
	results := acq.UpdateResults(context.Background(), []domain.SearchResult{
		{URL: "https://example.org/x", Title: "Snippet title", Content: "snippet"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, domain.ScrapeFailure, results[0].ScrapeStatus)
	assert.Equal(t, "snippet", results[0].Content, "failed scrape never evicts the snippet")
}

func TestIsVideoURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsVideoURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, IsVideoURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.False(t, IsVideoURL("https://www.youtube.com/feed/trending"))
	assert.False(t, IsVideoURL("https://example.org/watch?v=123"))
	assert.Equal(t, "dQw4w9WgXcQ", VideoID("https://youtu.be/dQw4w9WgXcQ"))
}

func TestCleanContentStripsBoilerplate(t *testing.T) {
	t.Parallel()

	raw := "Headline paragraph.\n" +
		"[Home](https://example.org)\n" +
		"Share this article\n" +
		"Subscribe to our newsletter\n" +
		"Copyright © 2025 Example Media\n" +
		"\n\n" +
		"Second paragraph stays."

	cleaned := CleanContent(raw)
	assert.Equal(t, "Headline paragraph.\nSecond paragraph stays.", cleaned)
}
