// Package rerank adapts a remote cross-encoder reranking service behind
// a narrow interface: given a query and a set of candidate documents,
// return a relevance score per document.
package rerank

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

// DefaultTimeout bounds every rerank request; like the Embedding
// Client, this layer never retries.
const DefaultTimeout = 30 * time.Second

// Result pairs a candidate's position in the input slice with its
// relevance score. Higher score is more relevant; ordering among
// results is caller-defined.
type Result struct {
	Index int
	Score float64
}

// Reranker scores documents against a query.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error)
}

// HTTPConfig configures the remote Reranker Client.
type HTTPConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// HTTPReranker calls a remote reranking endpoint at {BaseURL}/rerank.
type HTTPReranker struct {
	client *http.Client
	cfg    HTTPConfig
}

var _ Reranker = (*HTTPReranker)(nil)

// NewHTTPReranker creates a remote Reranker Client.
func NewHTTPReranker(cfg HTTPConfig) *HTTPReranker {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &HTTPReranker{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

type rerankRequest struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n"`
	ReturnDocuments bool     `json:"return_documents"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank posts query and documents to {BaseURL}/rerank and returns at
// most topN (original_index, score) pairs. Fails with the same error
// kinds as the Embedding Client; callers degrade gracefully on error.
func (r *HTTPReranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error) {
	if len(documents) == 0 {
		return []Result{}, nil
	}

	body, err := json.Marshal(rerankRequest{
		Model:           r.cfg.Model,
		Query:           query,
		Documents:       documents,
		TopN:            topN,
		ReturnDocuments: false,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.BadResponse, fmt.Errorf("marshal rerank request: %w", err))
	}

	url := r.cfg.BaseURL + "/rerank"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Wrap(apperr.RemoteUnavailable, fmt.Errorf("build rerank request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, apperr.New(apperr.RemoteUnavailable, fmt.Sprintf("rerank request to %s failed", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, apperr.New(apperr.Auth, fmt.Sprintf("rerank endpoint rejected credentials (status %d)", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, apperr.New(apperr.BadResponse, fmt.Sprintf("rerank endpoint returned status %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperr.Wrap(apperr.BadResponse, fmt.Errorf("decode rerank response: %w", err))
	}

	results := make([]Result, len(parsed.Results))
	for i, res := range parsed.Results {
		results[i] = Result{Index: res.Index, Score: res.RelevanceScore}
	}

	slog.Debug("rerank", slog.String("model", r.cfg.Model), slog.Int("doc_count", len(documents)), slog.Int("result_count", len(results)))

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}

	return results, nil
}
