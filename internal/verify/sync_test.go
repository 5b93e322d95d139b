package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

type stubLister struct {
	articles []domain.PublishedArticle
	err      error
}

func (s *stubLister) ListPublished(context.Context) ([]domain.PublishedArticle, error) {
	return s.articles, s.err
}

type recordingIndex struct {
	stubIndex
	added []string
}

func (r *recordingIndex) Add(_ context.Context, _ domain.PublishedArticle, chunk string, _ []float32) error {
	r.added = append(r.added, chunk)
	return nil
}

func TestSyncCorpusIndexesEveryArticle(t *testing.T) {
	t.Parallel()

	lister := &stubLister{articles: []domain.PublishedArticle{
		{ID: "a1", Title: "First", URL: "https://blog.example.com/first/", Content: "alpha beta"},
		{ID: "a2", Title: "Second", URL: "https://blog.example.com/second/", Content: "gamma delta"},
	}}
	index := &recordingIndex{}

	err := SyncCorpus(context.Background(), lister, &stubEmbedder{}, index, testConfig(), nil)
	require.NoError(t, err)

	require.Len(t, index.added, 2)
	assert.Contains(t, index.added[0], "First")
	assert.Contains(t, index.added[1], "Second")
}

func TestSyncCorpusReturnsListingFailure(t *testing.T) {
	t.Parallel()

	lister := &stubLister{err: errors.New("cms down")}

	err := SyncCorpus(context.Background(), lister, &stubEmbedder{}, &stubIndex{}, testConfig(), nil)
	assert.Error(t, err)
}

func TestSyncCorpusSkipsFailingArticle(t *testing.T) {
	t.Parallel()

	lister := &stubLister{articles: []domain.PublishedArticle{
		{ID: "a1", Title: "First", Content: "alpha"},
		{ID: "a2", Title: "Second", Content: "beta"},
	}}

	calls := 0
	embedder := &flakyEmbedder{failOn: 1, calls: &calls}
	index := &recordingIndex{}

	err := SyncCorpus(context.Background(), lister, embedder, index, testConfig(), nil)
	require.NoError(t, err)

	// The first article's embedding fails; the second is still indexed.
	require.Len(t, index.added, 1)
	assert.Contains(t, index.added[0], "Second")
}

type flakyEmbedder struct {
	failOn int
	calls  *int
}

func (f *flakyEmbedder) Embed(context.Context, string) ([]float32, error) {
	*f.calls++
	if *f.calls == f.failOn {
		return nil, errors.New("embedding down")
	}
	return []float32{1, 0, 0}, nil
}

var _ ports.Embedder = (*flakyEmbedder)(nil)
