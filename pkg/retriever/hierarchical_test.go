package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aman-router/toolrouter/internal/catalog"
	"github.com/aman-router/toolrouter/internal/embed"
	"github.com/aman-router/toolrouter/internal/rerank"
	"github.com/aman-router/toolrouter/internal/store"
)

func buildHybridForGranularity(t *testing.T, rows []catalog.Row, granularity catalog.Granularity, cfg Config) *HybridRetriever {
	t.Helper()

	corpus, err := catalog.Build(rows, granularity)
	require.NoError(t, err)

	docs := make([]store.Document, len(corpus))
	contents := make([]string, len(corpus))
	for i, d := range corpus {
		docs[i] = store.Document{ID: d.ID(), Content: d.Content}
		contents[i] = d.Content
	}

	bm25Index, err := store.NewBleveBM25Index("", store.DefaultBM25Config())
	require.NoError(t, err)
	require.NoError(t, bm25Index.Build(context.Background(), docs))

	embedder := embed.NewStaticEmbedder()
	vectors, err := embedder.Embed(context.Background(), contents)
	require.NoError(t, err)
	vectorStore := store.NewFlatVectorStore(store.VectorStoreConfig{Dimensions: embedder.Dimensions()})
	require.NoError(t, vectorStore.Build(vectors))

	return NewHybridRetriever(
		NewBM25Retriever(bm25Index, corpus),
		NewVectorRetriever(vectorStore, embedder, corpus),
		rerank.NewStaticReranker(),
		corpus,
		cfg,
	)
}

func TestHierarchicalRetrieverFiltersStage2ByStage1Keys(t *testing.T) {
	// Scenario S3: stage 1 routes to {"type: search service: Bing"};
	// of the five catalog rows only the Bing row matches that key, so the
	// stage-2 pre-filter list (2*Stage1TopK = 2 candidates) filters to one.
	rows := []catalog.Row{
		{Type: "search", Service: "Bing", Tool: "web_search"},
		{Type: "weather", Service: "WeatherAPI", Tool: "get_forecast"},
		{Type: "weather", Service: "ClimateCo", Tool: "get_radar"},
		{Type: "finance", Service: "StockAPI", Tool: "get_quote"},
		{Type: "finance", Service: "BankAPI", Tool: "get_balance"},
	}

	cfg := Config{BM25Weight: 0.5, VectorWeight: 0.5, RRFConstant: 60, RerankTopK: 5}
	coarse := buildHybridForGranularity(t, rows, catalog.TypeService, cfg)
	fine := buildHybridForGranularity(t, rows, catalog.TypeServiceTool, cfg)

	h := NewHierarchicalRetriever(coarse, fine, HierarchicalConfig{Stage1TopK: 1, Stage2TopK: 3})

	result, err := h.Retrieve(context.Background(), "type: search service: Bing tool: web_search")
	require.NoError(t, err)
	require.Equal(t, 1, result.Stage2FilteredCount)
	require.False(t, result.Degraded)
	require.NotEmpty(t, result.Ranking)
	require.Equal(t, "0", result.Ranking[0].ID)
}

func TestHierarchicalRetrieverDegradesWhenFilterEmpty(t *testing.T) {
	rows := []catalog.Row{
		{Type: "search", Service: "Bing", Tool: "web_search"},
		{Type: "weather", Service: "WeatherAPI", Tool: "get_forecast"},
	}

	cfg := Config{BM25Weight: 0.5, VectorWeight: 0.5, RRFConstant: 60, RerankTopK: 5}
	coarse := buildHybridForGranularity(t, rows, catalog.TypeService, cfg)
	// Tool-granularity content ("tool: X") never contains a
	// "type: X service: Y" coarse key, so the stage-2 filter is always
	// empty against it, forcing the degraded fallback.
	fine := buildHybridForGranularity(t, rows, catalog.Tool, cfg)

	h := NewHierarchicalRetriever(coarse, fine, HierarchicalConfig{Stage1TopK: 1, Stage2TopK: 2})

	result, err := h.Retrieve(context.Background(), "web search")
	require.NoError(t, err)
	require.True(t, result.Degraded)
	require.Equal(t, 0, result.Stage2FilteredCount)
	require.NotEmpty(t, result.Ranking)
}
