package retriever

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/aman-router/toolrouter/internal/catalog"
	"github.com/aman-router/toolrouter/internal/rerank"
)

// Config carries the fusion knobs read from config.SearchConfig.
type Config struct {
	BM25Weight   float64
	VectorWeight float64
	RRFConstant  int
	RerankTopK   int
	EnableCache  bool
}

// HybridRetriever exposes the four search methods over one corpus: raw
// BM25, raw vector, RRF-fused hybrid, and hybrid-then-rerank.
type HybridRetriever struct {
	bm25     *BM25Retriever
	vector   *VectorRetriever
	reranker rerank.Reranker
	corpus   catalog.Corpus
	cfg      Config
	cache    *queryCache
}

var _ Retriever = (*HybridRetriever)(nil)

// NewHybridRetriever builds a HybridRetriever over already-constructed
// BM25 and Vector retrievers sharing the same corpus.
func NewHybridRetriever(bm25 *BM25Retriever, vector *VectorRetriever, reranker rerank.Reranker, corpus catalog.Corpus, cfg Config) *HybridRetriever {
	return &HybridRetriever{
		bm25:     bm25,
		vector:   vector,
		reranker: reranker,
		corpus:   corpus,
		cfg:      cfg,
		cache:    newQueryCache(cfg.EnableCache),
	}
}

// BM25 returns the raw lexical ranking.
func (h *HybridRetriever) BM25(ctx context.Context, query string, k int) (Ranking, error) {
	if cached, ok := h.cache.get("bm25", query, k); ok {
		return cached, nil
	}
	ranking, err := h.bm25.Topk(ctx, query, k)
	if err != nil {
		return nil, err
	}
	h.cache.put("bm25", query, k, ranking)
	return ranking, nil
}

// Vector returns the raw dense ranking.
func (h *HybridRetriever) Vector(ctx context.Context, query string, k int) (Ranking, error) {
	if cached, ok := h.cache.get("vector", query, k); ok {
		return cached, nil
	}
	ranking, err := h.vector.Topk(ctx, query, k)
	if err != nil {
		return nil, err
	}
	h.cache.put("vector", query, k, ranking)
	return ranking, nil
}

// Hybrid runs BM25 and Vector at depth k and fuses them with RRF,
// truncated back to k. Satisfies Retriever.
func (h *HybridRetriever) Topk(ctx context.Context, query string, k int) (Ranking, error) {
	return h.Hybrid(ctx, query, k)
}

// Hybrid is Topk under its spec name.
func (h *HybridRetriever) Hybrid(ctx context.Context, query string, k int) (Ranking, error) {
	if cached, ok := h.cache.get("hybrid", query, k); ok {
		return cached, nil
	}

	var bm25Ranking, vectorRanking Ranking
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bm25Ranking, err = h.bm25.Topk(gctx, query, k)
		return err
	})
	g.Go(func() error {
		var err error
		vectorRanking, err = h.vector.Topk(gctx, query, k)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := FuseRRF([]WeightedRanking{
		{Ranking: bm25Ranking, Weight: h.cfg.BM25Weight},
		{Ranking: vectorRanking, Weight: h.cfg.VectorWeight},
	}, h.cfg.RRFConstant)
	fused = truncate(fused, k)

	h.cache.put("hybrid", query, k, fused)
	return fused, nil
}

// HybridRerankResult carries the reranked ranking plus whether the
// reranker degraded (its call failed and the hybrid order was kept).
type HybridRerankResult struct {
	Ranking  Ranking
	Degraded bool
}

// HybridRerank runs Hybrid to obtain k candidates, reranks them with
// the Reranker Client, and keeps the top RerankTopK by returned score.
// On reranker failure it returns the first RerankTopK entries of the
// pre-rerank hybrid ranking, unchanged, and reports Degraded.
func (h *HybridRetriever) HybridRerank(ctx context.Context, query string, k int) (HybridRerankResult, error) {
	hybridRanking, err := h.Hybrid(ctx, query, k)
	if err != nil {
		return HybridRerankResult{}, err
	}

	topN := h.cfg.RerankTopK
	if topN <= 0 {
		topN = len(hybridRanking)
	}

	docs := make([]string, len(hybridRanking))
	for i, r := range hybridRanking {
		docs[i] = h.corpus[r.Position].Content
	}

	scored, err := h.reranker.Rerank(ctx, query, docs, topN)
	if err != nil {
		slog.Warn("reranker_degraded", slog.String("error", err.Error()), slog.Int("rerank_top_k", topN))
		return HybridRerankResult{Ranking: truncate(hybridRanking, topN), Degraded: true}, nil
	}

	reranked := make(Ranking, 0, len(scored))
	for _, s := range scored {
		if s.Index < 0 || s.Index >= len(hybridRanking) {
			continue
		}
		orig := hybridRanking[s.Index]
		reranked = append(reranked, Ranked{Position: orig.Position, ID: orig.ID, Score: s.Score})
	}
	sortByScoreDesc(reranked)

	return HybridRerankResult{Ranking: truncate(reranked, topN)}, nil
}
