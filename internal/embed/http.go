package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aman-router/toolrouter/internal/apperr"
)

// HTTPConfig configures the remote Embedding Client.
type HTTPConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// HTTPEmbedder calls a remote embeddings endpoint at
// {BaseURL}/embeddings, the same OpenAI-shaped contract used by the
// Reranker Client's sibling endpoint.
type HTTPEmbedder struct {
	client *http.Client
	cfg    HTTPConfig
}

var _ Embedder = (*HTTPEmbedder)(nil)

// NewHTTPEmbedder creates a remote Embedding Client. No health check is
// performed at construction; failures surface on first Embed call.
func NewHTTPEmbedder(cfg HTTPConfig) *HTTPEmbedder {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &HTTPEmbedder{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed posts texts to {BaseURL}/embeddings and returns one vector per
// input in the same order. No retries at this layer; callers decide.
func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	body, err := json.Marshal(embeddingsRequest{Model: e.cfg.Model, Input: texts})
	if err != nil {
		return nil, apperr.Wrap(apperr.BadResponse, fmt.Errorf("marshal embeddings request: %w", err))
	}

	url := e.cfg.BaseURL + "/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Wrap(apperr.RemoteUnavailable, fmt.Errorf("build embeddings request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, apperr.New(apperr.RemoteUnavailable, fmt.Sprintf("embeddings request to %s failed", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, apperr.New(apperr.Auth, fmt.Sprintf("embeddings endpoint rejected credentials (status %d)", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, apperr.New(apperr.BadResponse, fmt.Sprintf("embeddings endpoint returned status %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var parsed embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperr.Wrap(apperr.BadResponse, fmt.Errorf("decode embeddings response: %w", err))
	}

	if len(parsed.Data) != len(texts) {
		return nil, apperr.New(apperr.BadResponse,
			fmt.Sprintf("embeddings endpoint returned %d vectors for %d inputs", len(parsed.Data), len(texts)), nil)
	}

	vectors := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		vectors[i] = d.Embedding
	}

	slog.Debug("embed_batch", slog.String("model", e.cfg.Model), slog.Int("count", len(texts)))

	return vectors, nil
}

// Dimensions is unknown until the first response arrives; callers that
// need it upfront should embed a probe text and inspect the result.
func (e *HTTPEmbedder) Dimensions() int {
	return 0
}

// ModelName returns the configured model identifier.
func (e *HTTPEmbedder) ModelName() string {
	return e.cfg.Model
}
