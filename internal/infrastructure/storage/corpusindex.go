package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

// CorpusIndex stores published-article chunks with their embeddings and
// answers nearest-neighbor lookups via pgvector cosine distance.
type CorpusIndex struct {
	pool *pgxpool.Pool
}

var _ ports.CorpusIndex = (*CorpusIndex)(nil)

func NewCorpusIndex(pool *pgxpool.Pool) *CorpusIndex {
	return &CorpusIndex{pool: pool}
}

// NearestNeighbors returns up to k chunks closest to the vector, scored as
// cosine similarity (1 means identical, 0 means orthogonal).
func (c *CorpusIndex) NearestNeighbors(ctx context.Context, vector []float32, k int) ([]ports.Neighbor, error) {
	query := `
		SELECT url, title, 1 - (embedding <=> $1) AS similarity
		FROM corpus_chunks
		ORDER BY embedding <=> $1
		LIMIT $2`

	rows, err := c.pool.Query(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("query nearest neighbors: %w", err)
	}
	defer rows.Close()

	var neighbors []ports.Neighbor
	for rows.Next() {
		var n ports.Neighbor
		if err := rows.Scan(&n.URL, &n.Title, &n.Similarity); err != nil {
			return nil, fmt.Errorf("scan neighbor: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return neighbors, nil
}

// Add indexes one chunk of a published article.
func (c *CorpusIndex) Add(ctx context.Context, article domain.PublishedArticle, chunk string, vector []float32) error {
	query := `
		INSERT INTO corpus_chunks (id, article_id, url, title, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	_, err := c.pool.Exec(ctx, query,
		uuid.New(), article.ID, article.URL, article.Title, chunk, pgvector.NewVector(vector))
	if err != nil {
		return fmt.Errorf("insert corpus chunk: %w", err)
	}
	return nil
}
