package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

// SyncCorpus populates the corpus index from the CMS's published articles so
// duplicate checks run against ground truth. Per-article failures are logged
// and skipped; a listing failure is returned so the caller can log it and
// proceed with whatever index state exists.
func SyncCorpus(ctx context.Context, lister ports.ArticleLister, embedder ports.Embedder, index ports.CorpusIndex, cfg Config, logger *slog.Logger) error {
	articles, err := lister.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published articles: %w", err)
	}

	synced := 0
	for _, article := range articles {
		if err := indexArticle(ctx, embedder, index, cfg, article); err != nil {
			if logger != nil {
				logger.Warn("skipping article during corpus sync", "title", article.Title, "error", err)
			}
			continue
		}
		synced++
	}

	if logger != nil {
		logger.Info("corpus sync done", "articles", len(articles), "synced", synced)
	}
	return nil
}

func indexArticle(ctx context.Context, embedder ports.Embedder, index ports.CorpusIndex, cfg Config, article domain.PublishedArticle) error {
	text := fmt.Sprintf("Title: %s\nContent: %s", article.Title, article.Content)
	for _, chunk := range Chunk(text, cfg.ChunkSize, cfg.ChunkOverlap) {
		vector, err := embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk: %w", err)
		}
		if err := index.Add(ctx, article, chunk, vector); err != nil {
			return fmt.Errorf("index chunk: %w", err)
		}
	}
	return nil
}
