package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlatVectorStoreSearchOrdersByDistance(t *testing.T) {
	s := NewFlatVectorStore(VectorStoreConfig{Dimensions: 2})
	require.NoError(t, s.Build([][]float32{
		{0, 0},
		{1, 0},
		{5, 5},
	}))

	results, err := s.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, positions(results))
}

func TestFlatVectorStoreRejectsDimensionMismatch(t *testing.T) {
	s := NewFlatVectorStore(VectorStoreConfig{Dimensions: 2})
	err := s.Build([][]float32{{1, 2, 3}})
	require.ErrorAs(t, err, &ErrDimensionMismatch{})
}

func TestFlatVectorStoreSearchRejectsQueryDimensionMismatch(t *testing.T) {
	s := NewFlatVectorStore(VectorStoreConfig{Dimensions: 2})
	require.NoError(t, s.Build([][]float32{{1, 2}}))

	_, err := s.Search([]float32{1, 2, 3}, 1)
	require.Error(t, err)
}

func TestFlatVectorStoreTieBreaksByPosition(t *testing.T) {
	s := NewFlatVectorStore(VectorStoreConfig{Dimensions: 1})
	require.NoError(t, s.Build([][]float32{{1}, {1}, {1}}))

	results, err := s.Search([]float32{0}, 3)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, positions(results))
}

func TestFlatVectorStoreSaveLoadRoundTrip(t *testing.T) {
	s := NewFlatVectorStore(VectorStoreConfig{Dimensions: 3})
	require.NoError(t, s.Build([][]float32{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}))

	path := filepath.Join(t.TempDir(), "vector.idx")
	require.NoError(t, s.Save(path))

	loaded := NewFlatVectorStore(VectorStoreConfig{})
	require.NoError(t, loaded.Load(path))

	require.Equal(t, 3, loaded.Dimensions())
	require.Equal(t, 2, loaded.Count())

	want, err := s.Search([]float32{0.1, 0.2, 0.3}, 2)
	require.NoError(t, err)
	got, err := loaded.Search([]float32{0.1, 0.2, 0.3}, 2)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func positions(results []VectorResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Position
	}
	return out
}
