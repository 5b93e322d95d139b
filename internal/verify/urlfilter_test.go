package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

type stubStore struct {
	existing map[string]bool
	err      error
}

func (s *stubStore) Exists(_ context.Context, url string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.existing[url], nil
}

func (s *stubStore) SaveSource(context.Context, string, string) error { return nil }

func TestFilterExistingDropsKnownURLs(t *testing.T) {
	t.Parallel()

	store := &stubStore{existing: map[string]bool{"https://old.example": true}}
	results := []domain.SearchResult{
		{URL: "https://old.example"},
		{URL: "https://new.example"},
	}

	filtered := FilterExisting(context.Background(), store, results, nil)
	require.Len(t, filtered, 1)
	assert.Equal(t, "https://new.example", filtered[0].URL)
}

func TestFilterExistingFailsOpenOnStoreError(t *testing.T) {
	t.Parallel()

	store := &stubStore{err: errors.New("store unreachable")}
	results := []domain.SearchResult{
		{URL: "https://a.example"},
		{URL: "https://b.example"},
	}

	filtered := FilterExisting(context.Background(), store, results, nil)
	assert.Equal(t, results, filtered, "a broken store must not drop candidates")
}

func TestFilterExistingWithoutStoreIsPassThrough(t *testing.T) {
	t.Parallel()

	results := []domain.SearchResult{{URL: "https://a.example"}}
	assert.Equal(t, results, FilterExisting(context.Background(), nil, results, nil))
}
