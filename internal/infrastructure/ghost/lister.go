package ghost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kreddys/ghostwriter-sub000/internal/config"
	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

const listerPageSize = 50

// Lister reads published posts through the Ghost Content API. It pages
// through the full archive so the corpus sync sees every article.
type Lister struct {
	appURL        string
	contentAPIKey string
	httpClient    *http.Client
}

var _ ports.ArticleLister = (*Lister)(nil)

func NewLister(cfg config.GhostConfig) *Lister {
	return &Lister{
		appURL:        strings.TrimRight(cfg.AppURL, "/"),
		contentAPIKey: cfg.ContentAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListPublished fetches all published posts with their plaintext content.
func (l *Lister) ListPublished(ctx context.Context) ([]domain.PublishedArticle, error) {
	if l.appURL == "" || l.contentAPIKey == "" {
		return nil, fmt.Errorf("ghost lister misconfigured")
	}

	var articles []domain.PublishedArticle
	for page := 1; ; page++ {
		posts, next, err := l.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			articles = append(articles, domain.PublishedArticle{
				ID:      p.ID,
				Title:   p.Title,
				URL:     p.URL,
				Content: p.Plaintext,
			})
		}
		if !next {
			break
		}
	}
	return articles, nil
}

type contentPost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Plaintext string `json:"plaintext"`
}

func (l *Lister) fetchPage(ctx context.Context, page int) ([]contentPost, bool, error) {
	params := url.Values{}
	params.Set("key", l.contentAPIKey)
	params.Set("fields", "id,title,url,plaintext")
	params.Set("formats", "plaintext")
	params.Set("limit", strconv.Itoa(listerPageSize))
	params.Set("page", strconv.Itoa(page))

	endpoint := l.appURL + "/ghost/api/content/posts/?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("new request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("list posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, false, fmt.Errorf("ghost error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Posts []contentPost `json:"posts"`
		Meta  struct {
			Pagination struct {
				Next *int `json:"next"`
			} `json:"pagination"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, false, fmt.Errorf("decode posts response: %w", err)
	}
	return parsed.Posts, parsed.Meta.Pagination.Next != nil, nil
}
