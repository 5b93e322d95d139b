package scrape

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kreddys/ghostwriter-sub000/internal/acquire"
	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

const defaultTimedTextEndpoint = "https://video.google.com/timedtext"

// YouTubeTranscript implements acquire.Scraper for video URLs using the
// timedtext caption API. An English track is preferred; otherwise the first
// available track is used and the text is prefixed with a language tag.
type YouTubeTranscript struct {
	endpoint string
	client   *http.Client
}

var _ acquire.Scraper = (*YouTubeTranscript)(nil)

// NewYouTubeTranscript builds the scraper; an empty endpoint uses the
// public API.
func NewYouTubeTranscript(endpoint string, client *http.Client) *YouTubeTranscript {
	if endpoint == "" {
		endpoint = defaultTimedTextEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &YouTubeTranscript{endpoint: endpoint, client: client}
}

// Name identifies the scraper in the fallback chain.
func (s *YouTubeTranscript) Name() string {
	return "youtube"
}

type trackList struct {
	Tracks []track `xml:"track"`
}

type track struct {
	LangCode string `xml:"lang_code,attr"`
	LangName string `xml:"lang_translated,attr"`
}

type transcript struct {
	Lines []string `xml:"text"`
}

// Scrape fetches the caption transcript for a video URL.
func (s *YouTubeTranscript) Scrape(ctx context.Context, pageURL string) (*acquire.Page, error) {
	videoID := acquire.VideoID(pageURL)
	if videoID == "" {
		return nil, fmt.Errorf("not a video url: %s", pageURL)
	}

	tracks, err := s.listTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no captions for video %s", videoID)
	}

	chosen := tracks[0]
	for _, t := range tracks {
		if t.LangCode == "en" {
			chosen = t
			break
		}
	}

	lines, err := s.fetchTranscript(ctx, videoID, chosen.LangCode)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(strings.Join(lines, " "))
	if content == "" {
		return nil, fmt.Errorf("empty transcript for video %s", videoID)
	}
	if chosen.LangCode != "en" {
		name := chosen.LangName
		if name == "" {
			name = chosen.LangCode
		}
		content = fmt.Sprintf("[Transcript in %s] %s", name, content)
	}

	return &acquire.Page{
		Content: content,
		Metadata: domain.ResultMetadata{
			Language: chosen.LangCode,
			VideoID:  videoID,
		},
	}, nil
}

func (s *YouTubeTranscript) listTracks(ctx context.Context, videoID string) ([]track, error) {
	query := url.Values{}
	query.Set("type", "list")
	query.Set("v", videoID)

	var list trackList
	if err := s.getXML(ctx, query, &list); err != nil {
		return nil, fmt.Errorf("list caption tracks: %w", err)
	}
	return list.Tracks, nil
}

func (s *YouTubeTranscript) fetchTranscript(ctx context.Context, videoID, lang string) ([]string, error) {
	query := url.Values{}
	query.Set("v", videoID)
	query.Set("lang", lang)

	var t transcript
	if err := s.getXML(ctx, query, &t); err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}

	lines := make([]string, 0, len(t.Lines))
	for _, line := range t.Lines {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (s *YouTubeTranscript) getXML(ctx context.Context, query url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("timedtext returned %s", resp.Status)
	}

	if err := xml.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode xml: %w", err)
	}
	return nil
}
