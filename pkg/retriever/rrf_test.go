package retriever

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuseRRFScoreFormula(t *testing.T) {
	// Scenario S2: two lists each ranking the same single document at
	// rank 0, weights 0.5/0.5, k=60. Expect fused score ≈ 0.01639.
	bm25 := Ranking{{Position: 0, ID: "0", Score: 1}}
	vector := Ranking{{Position: 0, ID: "0", Score: 1}}

	fused := FuseRRF([]WeightedRanking{
		{Ranking: bm25, Weight: 0.5},
		{Ranking: vector, Weight: 0.5},
	}, 60)

	require.Len(t, fused, 1)
	require.InDelta(t, 0.01639, fused[0].Score, 0.0001)
}

func TestFuseRRFCollapsesDuplicateIds(t *testing.T) {
	bm25 := Ranking{{Position: 0, ID: "0", Score: 1}, {Position: 1, ID: "1", Score: 0.5}}
	vector := Ranking{{Position: 1, ID: "1", Score: 1}, {Position: 0, ID: "0", Score: 0.5}}

	fused := FuseRRF([]WeightedRanking{
		{Ranking: bm25, Weight: 0.5},
		{Ranking: vector, Weight: 0.5},
	}, 60)

	require.Len(t, fused, 2)
	ids := map[string]bool{}
	for _, f := range fused {
		require.False(t, ids[f.ID], "duplicate id in fused output")
		ids[f.ID] = true
	}
}

func TestFuseRRFDropsAbsentListTerm(t *testing.T) {
	bm25 := Ranking{{Position: 0, ID: "0", Score: 1}}
	vector := Ranking{}

	fused := FuseRRF([]WeightedRanking{
		{Ranking: bm25, Weight: 0.5},
		{Ranking: vector, Weight: 0.5},
	}, 60)

	require.Len(t, fused, 1)
	require.InDelta(t, 0.5/61.0, fused[0].Score, 0.0001)
}

func TestFuseRRFOrdersByScoreDescending(t *testing.T) {
	bm25 := Ranking{{Position: 0, ID: "0", Score: 1}, {Position: 1, ID: "1", Score: 1}}
	vector := Ranking{{Position: 0, ID: "0", Score: 1}, {Position: 1, ID: "1", Score: 1}}

	fused := FuseRRF([]WeightedRanking{
		{Ranking: bm25, Weight: 0.5},
		{Ranking: vector, Weight: 0.5},
	}, 60)

	require.Equal(t, "0", fused[0].ID)
	require.Greater(t, fused[0].Score, fused[1].Score)
}
