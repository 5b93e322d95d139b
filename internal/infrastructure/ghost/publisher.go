package ghost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kreddys/ghostwriter-sub000/internal/config"
	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

// Publisher creates draft posts through the Ghost Admin API.
type Publisher struct {
	appURL      string
	adminAPIKey string
	httpClient  *http.Client
	now         func() time.Time
}

var _ ports.Publisher = (*Publisher)(nil)

func NewPublisher(cfg config.GhostConfig) *Publisher {
	return &Publisher{
		appURL:      strings.TrimRight(cfg.AppURL, "/"),
		adminAPIKey: cfg.AdminAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

type postPayload struct {
	Title  string    `json:"title"`
	HTML   string    `json:"html"`
	Tags   []postTag `json:"tags"`
	Status string    `json:"status"`
}

type postTag struct {
	Name string `json:"name"`
}

// CreateDraft submits the article as a draft post and returns its URL.
func (p *Publisher) CreateDraft(ctx context.Context, article domain.Article) (string, error) {
	if p.appURL == "" || p.adminAPIKey == "" {
		return "", fmt.Errorf("ghost publisher misconfigured")
	}

	token, err := adminToken(p.adminAPIKey, p.now())
	if err != nil {
		return "", err
	}

	tags := make([]postTag, 0, len(article.Tags))
	for _, t := range article.Tags {
		tags = append(tags, postTag{Name: t})
	}
	body, err := json.Marshal(map[string][]postPayload{
		"posts": {{
			Title:  article.Title,
			HTML:   article.Body,
			Tags:   tags,
			Status: "draft",
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal post payload: %w", err)
	}

	url := p.appURL + "/ghost/api/admin/posts/?source=html"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create draft: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ghost error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Posts []struct {
			URL string `json:"url"`
		} `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if len(parsed.Posts) == 0 {
		return "", fmt.Errorf("create response has no posts")
	}
	return parsed.Posts[0].URL, nil
}
