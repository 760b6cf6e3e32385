package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func testDocs() []Document {
	return []Document{
		{ID: "a1", Content: "type: weather service: WeatherAPI tool: get_forecast"},
		{ID: "b1", Content: "type: search service: Bing tool: web_search"},
		{ID: "c1", Content: "type: search service: Google tool: web_search"},
	}
}

func TestBleveBM25BuildAndSearch(t *testing.T) {
	idx, err := NewBleveBM25Index("", DefaultBM25Config())
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Build(context.Background(), testDocs()))

	results, err := idx.Search(context.Background(), "weather forecast", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, 0, results[0].Position)
}

func TestBleveBM25TieBreaksByPosition(t *testing.T) {
	idx, err := NewBleveBM25Index("", DefaultBM25Config())
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Build(context.Background(), testDocs()))

	results, err := idx.Search(context.Background(), "search", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 1, results[0].Position)
	require.Equal(t, 2, results[1].Position)
}

func TestBleveBM25EmptyQuery(t *testing.T) {
	idx, err := NewBleveBM25Index("", DefaultBM25Config())
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Build(context.Background(), testDocs()))

	results, err := idx.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestBleveBM25RetokenizationIsStable(t *testing.T) {
	idx, err := NewBleveBM25Index("", DefaultBM25Config())
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Build(context.Background(), testDocs()))
	first, err := idx.Search(context.Background(), "web search", 10)
	require.NoError(t, err)

	second, err := idx.Search(context.Background(), "web search", 10)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBleveBM25SaveRequiresDiskBackedIndex(t *testing.T) {
	idx, err := NewBleveBM25Index("", DefaultBM25Config())
	require.NoError(t, err)
	defer idx.Close()

	require.Error(t, idx.Save(""))
}

func TestBleveBM25Stats(t *testing.T) {
	idx, err := NewBleveBM25Index("", DefaultBM25Config())
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Build(context.Background(), testDocs()))
	stats := idx.Stats()
	require.Equal(t, 3, stats.DocumentCount)
}
