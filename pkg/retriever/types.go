// Package retriever implements Reciprocal Rank Fusion over a lexical
// (BM25) and a dense (vector) ranking, plus the two-stage hierarchical
// retrieval path used for production tool routing.
package retriever

import "context"

// Ranked is one document's position in a ranking: its corpus position,
// its fusion identity (catalog.Document.ID()), and a score whose scale
// is specific to the ranking it came from.
type Ranked struct {
	Position int
	ID       string
	Score    float64
}

// Ranking is an ordered list of Ranked results, best first.
type Ranking []Ranked

// Retriever is the capability every ranking strategy (BM25, Vector,
// Hybrid, Hierarchical) implements.
type Retriever interface {
	Topk(ctx context.Context, query string, k int) (Ranking, error)
}

// truncate returns ranking capped to k entries (k<=0 means unlimited).
func truncate(ranking Ranking, k int) Ranking {
	if k > 0 && len(ranking) > k {
		return ranking[:k]
	}
	return ranking
}

// sortByScoreDesc sorts in place by score descending, ties by position
// ascending, using a stable insertion sort (ranking sizes here are
// small — at most a few hundred candidates).
func sortByScoreDesc(ranking Ranking) {
	for i := 1; i < len(ranking); i++ {
		j := i
		for j > 0 && less(ranking[j], ranking[j-1]) {
			ranking[j], ranking[j-1] = ranking[j-1], ranking[j]
			j--
		}
	}
}

func less(a, b Ranked) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Position < b.Position
}
