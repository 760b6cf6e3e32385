package retriever

import (
	"context"
	"math"
	"strings"

	"github.com/aman-router/toolrouter/internal/apperr"
	"github.com/aman-router/toolrouter/internal/catalog"
	"github.com/aman-router/toolrouter/internal/embed"
	"github.com/aman-router/toolrouter/internal/store"
)

// VectorRetriever embeds the query, then runs an exact nearest-neighbor
// search against a store.VectorStore, resolving each row back to a
// fusion identity via the owning Corpus.
type VectorRetriever struct {
	index    store.VectorStore
	embedder embed.Embedder
	corpus   catalog.Corpus
}

var _ Retriever = (*VectorRetriever)(nil)

// NewVectorRetriever wraps an already-built vector index, the embedder
// used to embed queries against it, and the Corpus it was built from.
func NewVectorRetriever(index store.VectorStore, embedder embed.Embedder, corpus catalog.Corpus) *VectorRetriever {
	return &VectorRetriever{index: index, embedder: embedder, corpus: corpus}
}

// Topk embeds query and returns the k nearest rows by L2 distance,
// ranked closest first.
func (r *VectorRetriever) Topk(ctx context.Context, query string, k int) (Ranking, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.New(apperr.InvalidQuery, "empty query", nil)
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, apperr.New(apperr.BadResponse, "embedder returned unexpected vector count for single query", nil)
	}

	for _, f := range vectors[0] {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil, apperr.New(apperr.InvalidQuery, "query embedding contains a non-finite value", nil)
		}
	}

	results, err := r.index.Search(vectors[0], k)
	if err != nil {
		return nil, err
	}

	ranking := make(Ranking, len(results))
	for i, res := range results {
		ranking[i] = Ranked{
			Position: res.Position,
			ID:       r.corpus[res.Position].ID(),
			Score:    -float64(res.Distance),
		}
	}
	return ranking, nil
}
