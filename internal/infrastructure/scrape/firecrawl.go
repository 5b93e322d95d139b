package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kreddys/ghostwriter-sub000/internal/acquire"
	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

// Firecrawl implements acquire.Scraper against the Firecrawl scrape API.
type Firecrawl struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ acquire.Scraper = (*Firecrawl)(nil)

// NewFirecrawl builds the adapter; client may be nil.
func NewFirecrawl(endpoint, apiKey string, client *http.Client) *Firecrawl {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Firecrawl{endpoint: endpoint, apiKey: apiKey, client: client}
}

// Name identifies the scraper in the fallback chain.
func (f *Firecrawl) Name() string {
	return "firecrawl"
}

// Scrape fetches the rendered page as markdown and strips boilerplate.
func (f *Firecrawl) Scrape(ctx context.Context, pageURL string) (*acquire.Page, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("firecrawl api key not configured")
	}

	body, err := json.Marshal(map[string]any{
		"url":     pageURL,
		"formats": []string{"markdown"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal scrape payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firecrawl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("firecrawl error: %s", resp.Status)
	}

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			Markdown string `json:"markdown"`
			Metadata struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				Language    string `json:"language"`
				StatusCode  int    `json:"statusCode"`
			} `json:"metadata"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode firecrawl response: %w", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("firecrawl reported failure for %s", pageURL)
	}

	return &acquire.Page{
		Title:   parsed.Data.Metadata.Title,
		Content: acquire.CleanContent(parsed.Data.Markdown),
		Metadata: domain.ResultMetadata{
			Description: parsed.Data.Metadata.Description,
			Language:    parsed.Data.Metadata.Language,
			StatusCode:  parsed.Data.Metadata.StatusCode,
		},
	}, nil
}
