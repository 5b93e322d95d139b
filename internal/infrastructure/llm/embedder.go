package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kreddys/ghostwriter-sub000/internal/config"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
	"github.com/kreddys/ghostwriter-sub000/internal/retry"
)

// Embedder implements ports.Embedder against OpenAI-compatible embedding APIs.
type Embedder struct {
	endpoint   string
	model      string
	apiKey     string
	policy     retry.Policy
	httpClient *http.Client
}

var _ ports.Embedder = (*Embedder)(nil)

// NewEmbedder builds an embedding client from configuration.
func NewEmbedder(cfg config.EmbeddingConfig, policy retry.Policy) *Embedder {
	return &Embedder{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		policy:   policy,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Embed returns the vector for one text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.endpoint == "" || e.model == "" {
		return nil, fmt.Errorf("embedder misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": e.model,
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding payload: %w", err)
	}

	var vector []float32
	err = retry.Do(ctx, e.policy, func() error {
		vector, err = e.post(ctx, body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}

func (e *Embedder) post(ctx context.Context, body []byte) ([]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedding error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding response has no data")
	}

	return parsed.Data[0].Embedding, nil
}
