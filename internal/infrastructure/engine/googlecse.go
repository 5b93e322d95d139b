package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/search"
)

const defaultGoogleEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleCSE implements search.Engine against the Google Custom Search API.
type GoogleCSE struct {
	endpoint string
	apiKey   string
	cx       string
	client   *http.Client
}

var _ search.Engine = (*GoogleCSE)(nil)

// NewGoogleCSE builds the adapter; an empty endpoint uses the public API.
func NewGoogleCSE(endpoint, apiKey, cx string, client *http.Client) *GoogleCSE {
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &GoogleCSE{endpoint: endpoint, apiKey: apiKey, cx: cx, client: client}
}

// Name identifies the engine inside the registry.
func (g *GoogleCSE) Name() string {
	return "google"
}

// Search executes one query with an optional recency restriction.
func (g *GoogleCSE) Search(ctx context.Context, req search.Request) ([]domain.SearchResult, error) {
	if g.apiKey == "" || g.cx == "" {
		return nil, fmt.Errorf("google cse credentials not configured")
	}

	query := url.Values{}
	query.Set("key", g.apiKey)
	query.Set("cx", g.cx)
	query.Set("q", req.Query)
	if req.MaxResults > 0 {
		num := req.MaxResults
		if num > 10 {
			num = 10 // API page limit
		}
		query.Set("num", strconv.Itoa(num))
	}
	if req.RecencyDays > 0 {
		query.Set("dateRestrict", fmt.Sprintf("d%d", req.RecencyDays))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google cse request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google cse error: %s", resp.Status)
	}

	var parsed struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode google cse response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			URL:     item.Link,
			Title:   item.Title,
			Content: item.Snippet,
			Source:  g.Name(),
		})
	}
	return results, nil
}
