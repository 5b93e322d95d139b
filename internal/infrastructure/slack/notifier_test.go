package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreddys/ghostwriter-sub000/internal/config"
)

func newTestNotifier(serverURL string) *Notifier {
	n := NewNotifier(config.SlackConfig{BotToken: "xoxb-test", ChannelID: "C123"})
	n.endpoint = serverURL
	return n
}

func TestNotifyDraft(t *testing.T) {
	var got map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)

	err := n.NotifyDraft(context.Background(), "Metro Phase Two Approved",
		[]string{"transport", "news"}, "https://blog.example.com/p/new-draft/")
	require.NoError(t, err)

	assert.Equal(t, "C123", got["channel"])
	assert.Contains(t, got["text"], "Metro Phase Two Approved")
	assert.Contains(t, got["text"], "transport, news")
	assert.Contains(t, got["text"], "https://blog.example.com/p/new-draft/")
}

func TestNotifyDraftAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)

	err := n.NotifyDraft(context.Background(), "t", nil, "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestNotifyDraftMisconfigured(t *testing.T) {
	n := NewNotifier(config.SlackConfig{})
	err := n.NotifyDraft(context.Background(), "t", nil, "u")
	assert.Error(t, err)
}
