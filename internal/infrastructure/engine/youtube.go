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

const defaultYouTubeEndpoint = "https://www.googleapis.com/youtube/v3/search"

// YouTube implements search.Engine against the YouTube Data API. Hits carry
// only the snippet description; the transcript scraper fills in content.
type YouTube struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ search.Engine = (*YouTube)(nil)

// NewYouTube builds the adapter; an empty endpoint uses the public API.
func NewYouTube(endpoint, apiKey string, client *http.Client) *YouTube {
	if endpoint == "" {
		endpoint = defaultYouTubeEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &YouTube{endpoint: endpoint, apiKey: apiKey, client: client}
}

// Name identifies the engine inside the registry.
func (y *YouTube) Name() string {
	return "youtube"
}

// Search returns recent videos matching the query.
func (y *YouTube) Search(ctx context.Context, req search.Request) ([]domain.SearchResult, error) {
	if y.apiKey == "" {
		return nil, fmt.Errorf("youtube api key not configured")
	}

	query := url.Values{}
	query.Set("key", y.apiKey)
	query.Set("part", "snippet")
	query.Set("type", "video")
	query.Set("order", "date")
	query.Set("q", req.Query)
	if req.MaxResults > 0 {
		query.Set("maxResults", strconv.Itoa(req.MaxResults))
	}
	if req.RecencyDays > 0 {
		after := time.Now().UTC().AddDate(0, 0, -req.RecencyDays)
		query.Set("publishedAfter", after.Format(time.RFC3339))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, y.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := y.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("youtube request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube error: %s", resp.Status)
	}

	var parsed struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode youtube response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			URL:     "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Title:   item.Snippet.Title,
			Content: item.Snippet.Description,
			Source:  y.Name(),
			Metadata: domain.ResultMetadata{
				VideoID: item.ID.VideoID,
			},
		})
	}
	return results, nil
}
