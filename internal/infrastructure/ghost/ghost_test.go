package ghost

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreddys/ghostwriter-sub000/internal/config"
	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

const testAdminKey = "abc123:0123456789abcdef"

func TestAdminToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	signed, err := adminToken(testAdminKey, now)
	require.NoError(t, err)

	secret, _ := hex.DecodeString("0123456789abcdef")
	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)

	assert.Equal(t, "abc123", parsed.Header["kid"])
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "/admin/", claims["aud"])
	assert.Equal(t, float64(now.Unix()), claims["iat"])
	assert.Equal(t, float64(now.Add(5*time.Minute).Unix()), claims["exp"])
}

func TestAdminTokenRejectsMalformedKey(t *testing.T) {
	_, err := adminToken("no-separator", time.Now())
	assert.Error(t, err)

	_, err = adminToken("id:not-hex!", time.Now())
	assert.Error(t, err)
}

func TestPublisherCreateDraft(t *testing.T) {
	var gotAuth string
	var gotBody map[string][]map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ghost/api/admin/posts/", r.URL.Path)
		assert.Equal(t, "html", r.URL.Query().Get("source"))
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"posts":[{"url":"https://blog.example.com/p/new-draft/"}]}`))
	}))
	defer server.Close()

	pub := NewPublisher(config.GhostConfig{AppURL: server.URL, AdminAPIKey: testAdminKey})

	url, err := pub.CreateDraft(context.Background(), domain.Article{
		Title: "Metro Phase Two Approved",
		Body:  "<p>The council approved the extension.</p>",
		Tags:  []string{"transport", "news"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/p/new-draft/", url)

	assert.True(t, strings.HasPrefix(gotAuth, "Ghost "))
	post := gotBody["posts"][0]
	assert.Equal(t, "Metro Phase Two Approved", post["title"])
	assert.Equal(t, "draft", post["status"])
	tags := post["tags"].([]any)
	assert.Len(t, tags, 2)
}

func TestPublisherCreateDraftErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	pub := NewPublisher(config.GhostConfig{AppURL: server.URL, AdminAPIKey: testAdminKey})

	_, err := pub.CreateDraft(context.Background(), domain.Article{Title: "t", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestPublisherMisconfigured(t *testing.T) {
	pub := NewPublisher(config.GhostConfig{})
	_, err := pub.CreateDraft(context.Background(), domain.Article{Title: "t"})
	assert.Error(t, err)
}

func TestListerListPublished(t *testing.T) {
	pages := map[string]string{
		"1": `{"posts":[{"id":"a1","title":"First","url":"https://blog.example.com/first/","plaintext":"first body"}],
			"meta":{"pagination":{"next":2}}}`,
		"2": `{"posts":[{"id":"a2","title":"Second","url":"https://blog.example.com/second/","plaintext":"second body"}],
			"meta":{"pagination":{"next":null}}}`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ghost/api/content/posts/", r.URL.Path)
		assert.Equal(t, "content-key", r.URL.Query().Get("key"))
		assert.Equal(t, "plaintext", r.URL.Query().Get("formats"))
		_, _ = w.Write([]byte(pages[r.URL.Query().Get("page")]))
	}))
	defer server.Close()

	lister := NewLister(config.GhostConfig{AppURL: server.URL, ContentAPIKey: "content-key"})

	articles, err := lister.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "a1", articles[0].ID)
	assert.Equal(t, "first body", articles[0].Content)
	assert.Equal(t, "Second", articles[1].Title)
}

func TestListerErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	lister := NewLister(config.GhostConfig{AppURL: server.URL, ContentAPIKey: "k"})

	_, err := lister.ListPublished(context.Background())
	assert.Error(t, err)
}
