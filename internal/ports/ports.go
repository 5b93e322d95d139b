package ports

import (
	"context"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

// Embedder turns text into a vector for similarity comparisons.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Neighbor is one nearest-neighbor hit from the corpus index.
// Similarity is cosine similarity: higher means more alike.
type Neighbor struct {
	Similarity float64
	URL        string
	Title      string
}

// CorpusIndex is the vector index of previously published article content.
// The engine only queries it; Add is used by the corpus sync step.
type CorpusIndex interface {
	NearestNeighbors(ctx context.Context, vector []float32, k int) ([]Neighbor, error)
	Add(ctx context.Context, article domain.PublishedArticle, chunk string, vector []float32) error
}

// SourceStore records which source URLs already fed a published article.
type SourceStore interface {
	Exists(ctx context.Context, url string) (bool, error)
	SaveSource(ctx context.Context, sourceURL, publishedURL string) error
}

// ChatClient is an LLM chat-completion collaborator used for relevance
// judging, query generation, search-term generation, and drafting.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ArticleLister fetches already-published articles from the CMS.
type ArticleLister interface {
	ListPublished(ctx context.Context) ([]domain.PublishedArticle, error)
}

// Publisher pushes drafted articles to the CMS.
type Publisher interface {
	CreateDraft(ctx context.Context, article domain.Article) (publishedURL string, err error)
}

// Notifier announces a created draft to a review channel.
type Notifier interface {
	NotifyDraft(ctx context.Context, title string, tags []string, postURL string) error
}
