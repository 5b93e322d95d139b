package verify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

const relevancePrompt = `You judge whether a piece of web content is about a given topic.
Answer with a single word on the first line: RELEVANT if the content is about the topic, IRRELEVANT otherwise.`

// Config carries the thresholds governing the engine. Similarity scores are
// cosine similarity where higher means more alike: a chunk counts as unique
// when its nearest corpus neighbor scores at or below SimilarityThreshold.
type Config struct {
	Topic               string
	SimilarityThreshold float64
	ChunkSize           int
	ChunkOverlap        int
}

// Outcome is the engine's verdict for a grouped result set.
type Outcome struct {
	Accepted   domain.QueryResultSet
	Uniqueness []domain.UniquenessDecision
	Relevance  []domain.RelevanceDecision
}

// Engine decides, per result, whether content is both unique against the
// published corpus and relevant to the configured topic.
type Engine struct {
	embedder ports.Embedder
	index    ports.CorpusIndex
	chat     ports.ChatClient
	cfg      Config
	logger   *slog.Logger
}

// NewEngine wires the vector and LLM collaborators.
func NewEngine(embedder ports.Embedder, index ports.CorpusIndex, chat ports.ChatClient, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{embedder: embedder, index: index, chat: chat, cfg: cfg, logger: logger}
}

// Filter returns, per group, the subsequence of results that are both unique
// and relevant. Results whose full-text acquisition did not succeed are
// excluded before any checks run and get no decision records. A decision pair
// is recorded for every processed result. Any per-result collaborator failure
// is logged and fails closed; it never aborts sibling results or other groups.
func (e *Engine) Filter(ctx context.Context, set domain.QueryResultSet) Outcome {
	outcome := Outcome{Accepted: domain.QueryResultSet{}}

	for query, results := range set {
		var accepted []domain.SearchResult
		for _, result := range results {
			if result.ScrapeStatus != domain.ScrapeSuccess {
				e.debug("excluding result without acquired content",
					"query", query, "url", result.URL, "scrapeStatus", result.ScrapeStatus)
				continue
			}

			unique := e.checkUniqueness(ctx, result)
			outcome.Uniqueness = append(outcome.Uniqueness, unique)

			relevance := domain.RelevanceDecision{URL: result.URL}
			if unique.IsUnique {
				relevance = e.checkRelevance(ctx, result)
			} else {
				relevance.Reason = "not evaluated: content is not unique"
			}
			outcome.Relevance = append(outcome.Relevance, relevance)

			if unique.IsUnique && relevance.IsRelevant {
				accepted = append(accepted, result)
				e.debug("accepted result", "query", query, "url", result.URL)
			} else {
				e.debug("rejected result",
					"query", query, "url", result.URL,
					"unique", unique.IsUnique, "relevant", relevance.IsRelevant,
					"reason", unique.Reason)
			}
		}
		if len(accepted) > 0 {
			outcome.Accepted[query] = accepted
		}
	}

	return outcome
}

// checkUniqueness scans the result's chunks against the corpus index. The
// first chunk with no neighbor, or whose nearest neighbor scores at or below
// the threshold, marks the whole result unique and stops the scan.
func (e *Engine) checkUniqueness(ctx context.Context, result domain.SearchResult) domain.UniquenessDecision {
	decision := domain.UniquenessDecision{URL: result.URL}

	if strings.TrimSpace(result.Content) == "" {
		decision.Reason = "no content to check"
		return decision
	}

	chunks := Chunk(result.Content, e.cfg.ChunkSize, e.cfg.ChunkOverlap)
	if len(chunks) == 0 {
		decision.Reason = "no content to check"
		return decision
	}

	var (
		highestScore float64
		nearestURL   string
	)
	for i, chunk := range chunks {
		vector, err := e.embedder.Embed(ctx, chunk)
		if err != nil {
			e.warn("embedding failed", "url", result.URL, "chunk", i, "error", err)
			decision.Reason = fmt.Sprintf("embedding error: %v", err)
			return decision
		}

		neighbors, err := e.index.NearestNeighbors(ctx, vector, 1)
		if err != nil {
			e.warn("corpus lookup failed", "url", result.URL, "chunk", i, "error", err)
			decision.Reason = fmt.Sprintf("corpus lookup error: %v", err)
			return decision
		}

		if len(neighbors) == 0 {
			decision.IsUnique = true
			decision.Reason = fmt.Sprintf("chunk %d has no similar content in corpus", i+1)
			return decision
		}

		nearest := neighbors[0]
		if nearest.Similarity <= e.cfg.SimilarityThreshold {
			decision.IsUnique = true
			decision.SimilarityScore = nearest.Similarity
			decision.NearestMatchURL = nearest.URL
			decision.Reason = fmt.Sprintf("chunk %d scored %.4f, at or below threshold %.4f",
				i+1, nearest.Similarity, e.cfg.SimilarityThreshold)
			return decision
		}

		if nearest.Similarity > highestScore {
			highestScore = nearest.Similarity
			nearestURL = nearest.URL
		}
	}

	decision.SimilarityScore = highestScore
	decision.NearestMatchURL = nearestURL
	decision.Reason = fmt.Sprintf("every chunk scored above threshold %.4f", e.cfg.SimilarityThreshold)
	return decision
}

// checkRelevance asks the LLM judge whether the content is on topic; the
// verdict is parsed from the leading token of the reply.
func (e *Engine) checkRelevance(ctx context.Context, result domain.SearchResult) domain.RelevanceDecision {
	decision := domain.RelevanceDecision{URL: result.URL}

	user := fmt.Sprintf("Topic: %s\n\nTitle: %s\n\nContent:\n%s",
		e.cfg.Topic, result.Title, Truncate(result.Content))
	reply, err := e.chat.Complete(ctx, relevancePrompt, user)
	if err != nil {
		e.warn("relevance judgment failed", "url", result.URL, "error", err)
		decision.Reason = fmt.Sprintf("relevance check error: %v", err)
		return decision
	}

	lead := strings.ToLower(strings.TrimSpace(reply))
	decision.IsRelevant = strings.HasPrefix(lead, "relevant")
	if !decision.IsRelevant {
		decision.Reason = "judged off-topic"
	}
	return decision
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

func (e *Engine) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
