package rerank

import (
	"context"
	"strings"
)

// StaticReranker scores documents by lexical overlap with the query
// (shared token count). Deterministic, no network call; used for
// Scenario S1 and tests.
type StaticReranker struct{}

var _ Reranker = (*StaticReranker)(nil)

// NewStaticReranker creates a new static reranker.
func NewStaticReranker() *StaticReranker {
	return &StaticReranker{}
}

// Rerank scores each document by the count of query tokens it contains
// (case-insensitive whitespace split), then returns the top topN by
// that score. Ties keep input order.
func (s *StaticReranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error) {
	queryTokens := strings.Fields(strings.ToLower(query))

	results := make([]Result, len(documents))
	for i, doc := range documents {
		results[i] = Result{Index: i, Score: overlapScore(queryTokens, strings.ToLower(doc))}
	}

	// Stable insertion sort by score descending, ties by index ascending.
	for i := 1; i < len(results); i++ {
		j := i
		for j > 0 && results[j].Score > results[j-1].Score {
			results[j], results[j-1] = results[j-1], results[j]
			j--
		}
	}

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}

	return results, nil
}

func overlapScore(queryTokens []string, doc string) float64 {
	var score float64
	for _, tok := range queryTokens {
		if tok != "" && strings.Contains(doc, tok) {
			score++
		}
	}
	return score
}
