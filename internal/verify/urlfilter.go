package verify

import (
	"context"
	"log/slog"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

// FilterExisting drops results whose URL is already recorded as a published
// source. A store failure fails open: the original list is returned intact,
// since losing this safety check beats losing every candidate.
func FilterExisting(ctx context.Context, store ports.SourceStore, results []domain.SearchResult, logger *slog.Logger) []domain.SearchResult {
	if store == nil {
		return results
	}

	filtered := make([]domain.SearchResult, 0, len(results))
	for _, result := range results {
		exists, err := store.Exists(ctx, result.URL)
		if err != nil {
			if logger != nil {
				logger.Error("source store lookup failed, keeping all candidates", "error", err)
			}
			return results
		}
		if exists {
			if logger != nil {
				logger.Debug("dropping already-published source", "url", result.URL)
			}
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered
}
