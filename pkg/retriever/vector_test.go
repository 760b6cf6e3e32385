package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aman-router/toolrouter/internal/apperr"
	"github.com/aman-router/toolrouter/internal/catalog"
	"github.com/aman-router/toolrouter/internal/embed"
	"github.com/aman-router/toolrouter/internal/store"
)

func TestVectorRetrieverReturnsNearestFirst(t *testing.T) {
	rows := []catalog.Row{
		{Type: "weather", Service: "WeatherAPI", Tool: "get_forecast"},
		{Type: "search", Service: "Bing", Tool: "web_search"},
	}
	corpus, err := catalog.Build(rows, catalog.TypeServiceTool)
	require.NoError(t, err)

	embedder := embed.NewStaticEmbedder()
	contents := make([]string, len(corpus))
	for i, d := range corpus {
		contents[i] = d.Content
	}
	vectors, err := embedder.Embed(context.Background(), contents)
	require.NoError(t, err)

	idx := store.NewFlatVectorStore(store.VectorStoreConfig{Dimensions: embedder.Dimensions()})
	require.NoError(t, idx.Build(vectors))

	r := NewVectorRetriever(idx, embedder, corpus)
	ranking, err := r.Topk(context.Background(), contents[0], 2)
	require.NoError(t, err)
	require.Equal(t, "0", ranking[0].ID)
}

func TestVectorRetrieverRejectsEmptyQuery(t *testing.T) {
	rows := []catalog.Row{{Type: "a", Service: "b", Tool: "c"}}
	corpus, _ := catalog.Build(rows, catalog.TypeServiceTool)
	embedder := embed.NewStaticEmbedder()
	idx := store.NewFlatVectorStore(store.VectorStoreConfig{Dimensions: embedder.Dimensions()})
	require.NoError(t, idx.Build([][]float32{make([]float32, embedder.Dimensions())}))

	r := NewVectorRetriever(idx, embedder, corpus)
	_, err := r.Topk(context.Background(), "", 2)
	require.True(t, apperr.Is(err, apperr.InvalidQuery))
}
