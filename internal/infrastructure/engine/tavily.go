package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/search"
)

// Tavily implements search.Engine against the Tavily search API.
type Tavily struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ search.Engine = (*Tavily)(nil)

// NewTavily builds the adapter; client may be nil.
func NewTavily(endpoint, apiKey string, client *http.Client) *Tavily {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Tavily{endpoint: endpoint, apiKey: apiKey, client: client}
}

// Name identifies the engine inside the registry.
func (t *Tavily) Name() string {
	return "tavily"
}

// Search executes one query. Zero hits returns an empty slice, not an error.
func (t *Tavily) Search(ctx context.Context, req search.Request) ([]domain.SearchResult, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("tavily api key not configured")
	}

	body, err := json.Marshal(map[string]any{
		"api_key":     t.apiKey,
		"query":       req.Query,
		"max_results": req.MaxResults,
		"days":        req.RecencyDays,
		"topic":       "news",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tavily payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tavily error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
			Source:  t.Name(),
		})
	}
	return results, nil
}
