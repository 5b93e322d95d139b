package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

type stubChat struct {
	term  string
	calls int
}

func (s *stubChat) Complete(context.Context, string, string) (string, error) {
	s.calls++
	return s.term, nil
}

type vectorEmbedder struct {
	vectors map[string][]float32
}

func (v *vectorEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if vec, ok := v.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0}, nil
}

type stubSearcher struct {
	results domain.QueryResultSet
	calls   int
}

func (s *stubSearcher) Run(context.Context, []string) (domain.QueryResultSet, error) {
	s.calls++
	return s.results, nil
}

func TestEnrichSkipsFullyScrapedResults(t *testing.T) {
	t.Parallel()

	chat := &stubChat{term: "capital works"}
	searcher := &stubSearcher{}
	enricher := NewEnricher(chat, &vectorEmbedder{}, searcher, 0.9, nil)

	accepted := domain.QueryResultSet{
		"q": {{URL: "https://strong.example", Content: "full", ScrapeStatus: domain.ScrapeSuccess}},
	}

	_, err := enricher.Enrich(context.Background(), accepted)
	require.ErrorIs(t, err, ErrNoEnrichment)
	assert.Equal(t, 0, chat.calls, "no search-term generation for fully scraped results")
	assert.Equal(t, 0, searcher.calls)
}

func TestEnrichKeepsOnlyCandidatesAboveThreshold(t *testing.T) {
	t.Parallel()

	original := domain.SearchResult{URL: "https://weak.example", Title: "Weak", Content: "snippet", ScrapeStatus: domain.ScrapeFailure}
	near := domain.SearchResult{URL: "https://near.example", Title: "Near", Content: "match"}
	far := domain.SearchResult{URL: "https://far.example", Title: "Far", Content: "offtopic"}

	embedder := &vectorEmbedder{vectors: map[string][]float32{
		embeddingText(original): {1, 0},
		embeddingText(near):     {1, 0.1},
		embeddingText(far):      {0, 1},
	}}
	searcher := &stubSearcher{results: domain.QueryResultSet{"capital works": {near, far}}}
	enricher := NewEnricher(&stubChat{term: "capital works"}, embedder, searcher, 0.9, nil)

	enriched, err := enricher.Enrich(context.Background(), domain.QueryResultSet{"q": {original}})
	require.NoError(t, err)

	require.Len(t, enriched["q"], 1)
	require.Len(t, enriched["q"][0].Additional, 1)
	assert.Equal(t, "https://near.example", enriched["q"][0].Additional[0].URL)
}

func TestEnrichDropsGroupsWithNothingRelevant(t *testing.T) {
	t.Parallel()

	original := domain.SearchResult{URL: "https://weak.example", Title: "Weak", Content: "snippet"}
	far := domain.SearchResult{URL: "https://far.example", Title: "Far", Content: "offtopic"}

	embedder := &vectorEmbedder{vectors: map[string][]float32{
		embeddingText(original): {1, 0},
		embeddingText(far):      {0, 1},
	}}
	searcher := &stubSearcher{results: domain.QueryResultSet{"term": {far}}}
	enricher := NewEnricher(&stubChat{term: "term"}, embedder, searcher, 0.9, nil)

	enriched, err := enricher.Enrich(context.Background(), domain.QueryResultSet{"q": {original}})
	require.ErrorIs(t, err, ErrNoEnrichment)
	assert.Nil(t, enriched, "empty groups are dropped, not kept with empty lists")
}

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 3}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity(nil, []float32{1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1}))
}
