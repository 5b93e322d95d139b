package compose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

type scriptedChat struct {
	replies []string
	calls   int
}

func (s *scriptedChat) Complete(context.Context, string, string) (string, error) {
	reply := s.replies[s.calls%len(s.replies)]
	s.calls++
	return reply, nil
}

func TestDraftFromResultsContinuesPastMalformedResponse(t *testing.T) {
	t.Parallel()

	chat := &scriptedChat{replies: []string{
		"this is not json at all",
		`{"title": "Good Article", "body": "<p>text</p>", "tags": ["News"]}`,
	}}
	writer := NewWriter(chat, []string{"News"}, nil)

	accepted := domain.QueryResultSet{
		"q": {
			{URL: "https://a.example", Title: "A", Content: "one"},
			{URL: "https://b.example", Title: "B", Content: "two"},
		},
	}

	articles := writer.DraftFromResults(context.Background(), accepted)
	require.Len(t, articles, 1, "one malformed response must not abort the rest")
	assert.Equal(t, "Good Article", articles[0].Title)
	assert.Equal(t, []string{"News"}, articles[0].Tags)
	assert.Equal(t, 2, chat.calls)
}

func TestDraftRejectsArticlesWithoutTags(t *testing.T) {
	t.Parallel()

	chat := &scriptedChat{replies: []string{`{"title": "T", "body": "<p>b</p>", "tags": []}`}}
	writer := NewWriter(chat, nil, nil)

	articles := writer.DraftFromResults(context.Background(), domain.QueryResultSet{
		"q": {{URL: "https://a.example", Content: "x"}},
	})
	assert.Empty(t, articles)
}

func TestDraftFromEnrichedCombinesMaterial(t *testing.T) {
	t.Parallel()

	chat := &scriptedChat{replies: []string{
		"```json\n{\"title\": \"Fenced\", \"body\": \"<p>ok</p>\", \"tags\": [\"News\"]}\n```",
	}}
	writer := NewWriter(chat, []string{"News"}, nil)

	enriched := map[string][]domain.EnrichedResult{
		"q": {{
			Original:   domain.SearchResult{URL: "https://orig.example", Title: "O", Content: "base"},
			Additional: []domain.SearchResult{{URL: "https://extra.example", Title: "E", Content: "more"}},
		}},
	}

	articles := writer.DraftFromEnriched(context.Background(), enriched)
	require.Len(t, articles, 1)
	assert.Equal(t, "Fenced", articles[0].Title)
	assert.Equal(t, "https://orig.example", articles[0].SourceURL)
}

func TestStripFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `{"a":1}`, StripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFence(`{"a":1}`))
}
