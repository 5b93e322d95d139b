package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

// SourceStore persists the source URL → published URL mapping in Postgres.
type SourceStore struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

var _ ports.SourceStore = (*SourceStore)(nil)

// NewSourceStore wires a pgx pool.
func NewSourceStore(pool *pgxpool.Pool) *SourceStore {
	return &SourceStore{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Exists reports whether the source URL already fed a published article.
func (s *SourceStore) Exists(ctx context.Context, url string) (bool, error) {
	query, args, err := s.sb.
		Select("1").
		From("article_sources").
		Where(sq.Eq{"source_url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("query source urls: %w", err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("rows iteration: %w", err)
	}
	return exists, nil
}

// SaveSource records the mapping; repeats are ignored.
func (s *SourceStore) SaveSource(ctx context.Context, sourceURL, publishedURL string) error {
	query, args, err := s.sb.
		Insert("article_sources").
		Columns("source_url", "published_url").
		Values(sourceURL, publishedURL).
		Suffix("ON CONFLICT (source_url) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert source url: %w", err)
	}
	return nil
}
