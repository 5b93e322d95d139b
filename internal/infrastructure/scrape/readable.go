package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kreddys/ghostwriter-sub000/internal/acquire"
	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

// Readable implements acquire.Scraper by fetching the page directly and
// extracting the readable text with goquery. It is the in-process fallback
// when the scrape API is unavailable.
type Readable struct {
	client *http.Client
}

var _ acquire.Scraper = (*Readable)(nil)

// NewReadable builds the scraper; client may be nil.
func NewReadable(client *http.Client) *Readable {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Readable{client: client}
}

// Name identifies the scraper in the fallback chain.
func (s *Readable) Name() string {
	return "readable"
}

// Scrape downloads and extracts the page's paragraphs.
func (s *Readable) Scrape(ctx context.Context, pageURL string) (*acquire.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "ghostwriter/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside, form").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
		title = og
	}

	// Prefer an <article> element when the page has one.
	scope := doc.Selection
	if article := doc.Find("article").First(); article.Length() > 0 {
		scope = article
	}

	var paragraphs []string
	scope.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	content := acquire.CleanContent(strings.Join(paragraphs, "\n"))
	if content == "" {
		return nil, fmt.Errorf("no readable text on %s", pageURL)
	}

	meta := domain.ResultMetadata{StatusCode: resp.StatusCode}
	if lang, ok := doc.Find("html").Attr("lang"); ok {
		meta.Language = lang
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		meta.Description = desc
	}

	return &acquire.Page{Title: title, Content: content, Metadata: meta}, nil
}
