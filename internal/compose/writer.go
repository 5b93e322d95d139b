package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

const writerPrompt = `You write news articles for a content management system.
Given source material, compose one article and reply with a single JSON object:
{"title": "...", "body": "<p>...</p>", "tags": ["..."]}
The body is HTML. Pick tags from this list when possible: %s.
Reply with JSON only.`

// Writer drafts articles from accepted or enriched results, one LLM call
// per result. A malformed response skips that article and moves on.
type Writer struct {
	chat   ports.ChatClient
	tags   []string
	logger *slog.Logger
}

// NewWriter wires the LLM client; tags are the CMS's known tag names offered
// to the model.
func NewWriter(chat ports.ChatClient, tags []string, logger *slog.Logger) *Writer {
	return &Writer{chat: chat, tags: tags, logger: logger}
}

// DraftFromResults composes one article per accepted result.
func (w *Writer) DraftFromResults(ctx context.Context, accepted domain.QueryResultSet) []domain.Article {
	var articles []domain.Article
	for _, results := range accepted {
		for _, result := range results {
			material := fmt.Sprintf("Title: %s\nURL: %s\nContent:\n%s",
				result.Title, result.URL, result.Content)
			article, err := w.draftOne(ctx, material, result.URL)
			if err != nil {
				w.warn("skipping article", "url", result.URL, "error", err)
				continue
			}
			articles = append(articles, *article)
		}
	}
	return articles
}

// DraftFromEnriched composes one article per enriched result, combining the
// original with its supplementary material.
func (w *Writer) DraftFromEnriched(ctx context.Context, enriched map[string][]domain.EnrichedResult) []domain.Article {
	var articles []domain.Article
	for _, group := range enriched {
		for _, item := range group {
			var b strings.Builder
			fmt.Fprintf(&b, "Original article:\nTitle: %s\nURL: %s\nContent:\n%s\n",
				item.Original.Title, item.Original.URL, item.Original.Content)
			b.WriteString("\nAdditional information:\n")
			for _, extra := range item.Additional {
				fmt.Fprintf(&b, "- %s (%s): %s\n", extra.Title, extra.URL, extra.Content)
			}

			article, err := w.draftOne(ctx, b.String(), item.Original.URL)
			if err != nil {
				w.warn("skipping article", "url", item.Original.URL, "error", err)
				continue
			}
			articles = append(articles, *article)
		}
	}
	return articles
}

func (w *Writer) draftOne(ctx context.Context, material, sourceURL string) (*domain.Article, error) {
	system := fmt.Sprintf(writerPrompt, strings.Join(w.tags, ", "))
	reply, err := w.chat.Complete(ctx, system, material)
	if err != nil {
		return nil, fmt.Errorf("draft article: %w", err)
	}

	var parsed struct {
		Title string   `json:"title"`
		Body  string   `json:"body"`
		Tags  []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(StripFence(reply)), &parsed); err != nil {
		return nil, fmt.Errorf("parse article response: %w", err)
	}
	if parsed.Title == "" || parsed.Body == "" {
		return nil, fmt.Errorf("article response missing title or body")
	}
	if len(parsed.Tags) == 0 {
		return nil, fmt.Errorf("article response has no tags")
	}

	return &domain.Article{
		Title:     parsed.Title,
		Body:      parsed.Body,
		Tags:      parsed.Tags,
		SourceURL: sourceURL,
	}, nil
}

// StripFence removes a surrounding markdown code fence from an LLM reply.
func StripFence(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}

func (w *Writer) warn(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Warn(msg, args...)
	}
}
