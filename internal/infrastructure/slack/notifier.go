package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kreddys/ghostwriter-sub000/internal/config"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
)

const defaultEndpoint = "https://slack.com/api/chat.postMessage"

// Notifier posts draft announcements to a Slack channel.
type Notifier struct {
	endpoint   string
	botToken   string
	channelID  string
	httpClient *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(cfg config.SlackConfig) *Notifier {
	return &Notifier{
		endpoint:  defaultEndpoint,
		botToken:  cfg.BotToken,
		channelID: cfg.ChannelID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NotifyDraft announces a newly created draft for review.
func (n *Notifier) NotifyDraft(ctx context.Context, title string, tags []string, postURL string) error {
	if n.botToken == "" || n.channelID == "" {
		return fmt.Errorf("slack notifier misconfigured")
	}

	text := fmt.Sprintf("New draft ready for review: *%s*\nTags: %s\n%s",
		title, strings.Join(tags, ", "), postURL)

	body, err := json.Marshal(map[string]string{
		"channel": n.channelID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack error: %s", resp.Status)
	}

	var parsed struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode message response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("slack error: %s", parsed.Error)
	}
	return nil
}
