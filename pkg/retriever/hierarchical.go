package retriever

import (
	"context"
	"log/slog"
	"strings"
)

// HierarchicalConfig carries the two-stage retrieval depths.
type HierarchicalConfig struct {
	Stage1TopK int
	Stage2TopK int
}

// HierarchicalResult carries the final ranking plus which path was
// taken: Stage2FilteredCount is the length of the substring-filtered
// candidate list before rerank, and Degraded reports whether the
// filter produced an empty set (falling back to unfiltered fine
// candidates).
type HierarchicalResult struct {
	Ranking             Ranking
	Stage2FilteredCount int
	Degraded            bool
}

// HierarchicalRetriever performs coarse-then-fine retrieval: stage 1
// routes to coarse type/service keys over the type_service index,
// stage 2 shortlists tools from the type_service_tool index whose
// content names one of those keys, then neural-reranks the shortlist.
type HierarchicalRetriever struct {
	coarse *HybridRetriever
	fine   *HybridRetriever
	cfg    HierarchicalConfig
}

// NewHierarchicalRetriever wires a coarse and a fine HybridRetriever
// together.
func NewHierarchicalRetriever(coarse, fine *HybridRetriever, cfg HierarchicalConfig) *HierarchicalRetriever {
	return &HierarchicalRetriever{coarse: coarse, fine: fine, cfg: cfg}
}

// Retrieve runs the two-stage procedure described in the hierarchical
// retrieval design: stage 1 over the coarse index, stage 2 over the
// fine index filtered by stage 1's keys, then rerank.
func (h *HierarchicalRetriever) Retrieve(ctx context.Context, query string) (HierarchicalResult, error) {
	coarseRanking, err := h.coarse.Hybrid(ctx, query, h.cfg.Stage1TopK)
	if err != nil {
		return HierarchicalResult{}, err
	}

	coarseKeys := make([]string, 0, len(coarseRanking))
	for _, r := range coarseRanking {
		coarseKeys = append(coarseKeys, h.coarse.corpus[r.Position].Content)
	}

	fineRanking, err := h.fine.Hybrid(ctx, query, 2*h.cfg.Stage1TopK)
	if err != nil {
		return HierarchicalResult{}, err
	}

	filtered := make(Ranking, 0, len(fineRanking))
	for _, r := range fineRanking {
		content := h.fine.corpus[r.Position].Content
		if containsAny(content, coarseKeys) {
			filtered = append(filtered, r)
		}
	}

	candidates := filtered
	degraded := false
	if len(filtered) == 0 {
		slog.Warn("hierarchical_stage2_empty_filter", slog.String("query", query))
		candidates = fineRanking
		degraded = true
	} else {
		candidates = truncate(candidates, h.cfg.Stage1TopK)
	}

	docs := make([]string, len(candidates))
	for i, r := range candidates {
		docs[i] = h.fine.corpus[r.Position].Content
	}

	scored, err := h.fine.reranker.Rerank(ctx, query, docs, h.cfg.Stage2TopK)
	var final Ranking
	if err != nil {
		slog.Warn("reranker_degraded", slog.String("error", err.Error()))
		final = truncate(candidates, h.cfg.Stage2TopK)
	} else {
		final = make(Ranking, 0, len(scored))
		for _, s := range scored {
			if s.Index < 0 || s.Index >= len(candidates) {
				continue
			}
			orig := candidates[s.Index]
			final = append(final, Ranked{Position: orig.Position, ID: orig.ID, Score: s.Score})
		}
		sortByScoreDesc(final)
		final = truncate(final, h.cfg.Stage2TopK)
	}

	return HierarchicalResult{Ranking: final, Stage2FilteredCount: len(filtered), Degraded: degraded}, nil
}

func containsAny(content string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(content, key) {
			return true
		}
	}
	return false
}
