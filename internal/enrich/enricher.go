package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

const searchTermPrompt = `Produce a 2-3 word web search term that would find supplementary coverage of the article below.
Reply with the search term only, no quotes or punctuation.`

// ErrNoEnrichment reports that not a single group gained supplementary
// results; the run is treated as unsuccessful in that case.
var ErrNoEnrichment = errors.New("enrichment produced no groups")

// Searcher re-runs the multi-engine aggregation for enrichment terms.
type Searcher interface {
	Run(ctx context.Context, queries []string) (domain.QueryResultSet, error)
}

// Enricher attaches corroborating search hits to weakly-sourced results.
// Results that already carry a successful full-text scrape are skipped:
// enrichment backfills snippets, it does not pad strong results.
type Enricher struct {
	chat      ports.ChatClient
	embedder  ports.Embedder
	searcher  Searcher
	threshold float64
	logger    *slog.Logger
}

// NewEnricher wires the LLM, embedding, and search collaborators. The
// threshold is relevanceSimilarityThreshold: candidates must score at or
// above it (higher cosine similarity = more related).
func NewEnricher(chat ports.ChatClient, embedder ports.Embedder, searcher Searcher, threshold float64, logger *slog.Logger) *Enricher {
	return &Enricher{chat: chat, embedder: embedder, searcher: searcher, threshold: threshold, logger: logger}
}

// Enrich processes each accepted group. Groups that gain no supplementary
// results are dropped; if nothing at all is enriched, ErrNoEnrichment is
// returned.
func (e *Enricher) Enrich(ctx context.Context, accepted domain.QueryResultSet) (map[string][]domain.EnrichedResult, error) {
	enriched := map[string][]domain.EnrichedResult{}

	for query, results := range accepted {
		var groupResults []domain.EnrichedResult
		for _, result := range results {
			if result.ScrapeStatus == domain.ScrapeSuccess {
				e.debug("skipping enrichment, full text already acquired", "url", result.URL)
				continue
			}

			additional, err := e.enrichOne(ctx, result)
			if err != nil {
				e.warn("enrichment failed for result", "url", result.URL, "error", err)
				continue
			}
			if len(additional) == 0 {
				e.debug("no relevant supplementary results", "url", result.URL)
				continue
			}
			groupResults = append(groupResults, domain.EnrichedResult{
				Original:   result,
				Additional: additional,
			})
		}
		if len(groupResults) > 0 {
			enriched[query] = groupResults
		}
	}

	if len(enriched) == 0 {
		return nil, ErrNoEnrichment
	}
	return enriched, nil
}

func (e *Enricher) enrichOne(ctx context.Context, result domain.SearchResult) ([]domain.SearchResult, error) {
	term := e.generateSearchTerm(ctx, result)

	found, err := e.searcher.Run(ctx, []string{term})
	if err != nil {
		return nil, fmt.Errorf("supplementary search: %w", err)
	}

	originalVec, err := e.embedder.Embed(ctx, embeddingText(result))
	if err != nil {
		return nil, fmt.Errorf("embed original: %w", err)
	}

	var relevant []domain.SearchResult
	for _, candidates := range found {
		for _, candidate := range candidates {
			if candidate.URL == result.URL {
				continue
			}
			candidateVec, err := e.embedder.Embed(ctx, embeddingText(candidate))
			if err != nil {
				e.warn("embedding candidate failed", "url", candidate.URL, "error", err)
				continue
			}
			similarity := CosineSimilarity(originalVec, candidateVec)
			if similarity >= e.threshold {
				e.debug("keeping supplementary result", "url", candidate.URL, "similarity", similarity)
				relevant = append(relevant, candidate)
			} else {
				e.debug("dropping unrelated supplementary result", "url", candidate.URL, "similarity", similarity)
			}
		}
	}
	return relevant, nil
}

// generateSearchTerm asks the LLM for a short term; the result title is the
// fallback when the call fails.
func (e *Enricher) generateSearchTerm(ctx context.Context, result domain.SearchResult) string {
	content := result.Content
	if len(content) > 500 {
		content = content[:500]
	}
	user := fmt.Sprintf("Title: %s\n\nContent:\n%s", result.Title, content)

	term, err := e.chat.Complete(ctx, searchTermPrompt, user)
	if err != nil {
		e.warn("search term generation failed, using title", "url", result.URL, "error", err)
		return result.Title
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return result.Title
	}
	return term
}

func embeddingText(result domain.SearchResult) string {
	return fmt.Sprintf("%s. %s", result.Title, result.Content)
}

// CosineSimilarity computes the cosine of the angle between two vectors;
// zero-length or mismatched vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func (e *Enricher) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

func (e *Enricher) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
