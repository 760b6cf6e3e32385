package eval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNDCGPerfectRankingIsOne(t *testing.T) {
	require.InDelta(t, 1.0, NDCG([]string{"A", "B"}, []string{"A"}, 1), 1e-9)
}

func TestNDCGNoRelevantIsZero(t *testing.T) {
	require.Equal(t, 0.0, NDCG([]string{"Y", "Z"}, []string{"X"}, 3))
}

func TestNDCGSanityScenario(t *testing.T) {
	// Scenario S6: gold = ["X"], predictions ["Y","X","Z"] ->
	// NDCG@1 = 0, NDCG@3 = (1/log2(3))/1 ≈ 0.6309.
	predicted := []string{"Y", "X", "Z"}
	gold := []string{"X"}

	require.Equal(t, 0.0, NDCG(predicted, gold, 1))
	require.InDelta(t, 0.6309, NDCG(predicted, gold, 3), 0.0005)
}

func TestNDCGBoundsAlwaysBetweenZeroAndOne(t *testing.T) {
	cases := [][]string{
		{"A", "B", "C"},
		{"C", "B", "A"},
		{},
		{"A"},
	}
	gold := []string{"A", "C"}

	for _, predicted := range cases {
		for _, k := range Depths {
			v := NDCG(predicted, gold, k)
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
}
