package retriever

import (
	"context"
	"strings"

	"github.com/aman-router/toolrouter/internal/apperr"
	"github.com/aman-router/toolrouter/internal/catalog"
	"github.com/aman-router/toolrouter/internal/store"
)

// BM25Retriever adapts a store.BM25Index into the Retriever capability,
// resolving each result's corpus position into a fusion identity via
// the owning Corpus.
type BM25Retriever struct {
	index  store.BM25Index
	corpus catalog.Corpus
}

var _ Retriever = (*BM25Retriever)(nil)

// NewBM25Retriever wraps an already-built BM25 index and the Corpus it
// was built from.
func NewBM25Retriever(index store.BM25Index, corpus catalog.Corpus) *BM25Retriever {
	return &BM25Retriever{index: index, corpus: corpus}
}

// Topk returns the k documents with highest BM25 score, ties broken by
// corpus position (the index itself guarantees this).
func (r *BM25Retriever) Topk(ctx context.Context, query string, k int) (Ranking, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.New(apperr.InvalidQuery, "empty query", nil)
	}

	results, err := r.index.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	ranking := make(Ranking, len(results))
	for i, res := range results {
		ranking[i] = Ranked{
			Position: res.Position,
			ID:       r.corpus[res.Position].ID(),
			Score:    res.Score,
		}
	}
	return ranking, nil
}
