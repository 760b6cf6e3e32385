package cmd

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aman-router/toolrouter/internal/apperr"
	"github.com/aman-router/toolrouter/internal/catalog"
	"github.com/aman-router/toolrouter/internal/config"
	"github.com/aman-router/toolrouter/internal/embed"
	"github.com/aman-router/toolrouter/internal/rerank"
	"github.com/aman-router/toolrouter/internal/store"
	"github.com/aman-router/toolrouter/pkg/retriever"
)

// bundleNames are the three persisted index bundles, one per catalog
// granularity (internal/catalog.BuildAll).
var bundleNames = map[catalog.Granularity]string{
	catalog.TypeService:     "type_service",
	catalog.TypeServiceTool: "type_service_tool",
	catalog.Tool:            "tool",
}

// system bundles every loaded granularity's retriever plus the shared
// remote clients, ready to answer queries or run an evaluation.
type system struct {
	embedder embed.Embedder
	reranker rerank.Reranker
	hybrid   map[catalog.Granularity]*retriever.HybridRetriever
	corpus   map[catalog.Granularity]catalog.Corpus
	hier     *retriever.HierarchicalRetriever
}

// newClients builds the Embedding and Reranker clients from config. An
// empty base URL selects the deterministic static implementations, used
// for offline development and the test-group fixtures that don't depend
// on a live embedding/rerank service.
func newClients(cfg config.Config) (embed.Embedder, rerank.Reranker) {
	var embedder embed.Embedder
	if cfg.Embedding.BaseURL == "" {
		embedder = embed.NewStaticEmbedder()
	} else {
		embedder = embed.NewHTTPEmbedder(embed.HTTPConfig{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	}

	var reranker rerank.Reranker
	if cfg.Rerank.BaseURL == "" {
		reranker = rerank.NewStaticReranker()
	} else {
		reranker = rerank.NewHTTPReranker(rerank.HTTPConfig{
			APIKey:  cfg.Rerank.APIKey,
			BaseURL: cfg.Rerank.BaseURL,
			Model:   cfg.Rerank.Model,
		})
	}

	return embedder, reranker
}

// loadSystem opens every granularity's persisted bundle under
// cfg.IndexDir and wires a HybridRetriever for each, plus one
// HierarchicalRetriever spanning the coarse type_service and fine
// type_service_tool bundles.
func loadSystem(cfg config.Config) (*system, error) {
	embedder, reranker := newClients(cfg)

	fusionCfg := retriever.Config{
		BM25Weight:   cfg.Search.BM25Weight,
		VectorWeight: cfg.Search.VectorWeight,
		RRFConstant:  cfg.Search.RRFConstant,
		RerankTopK:   cfg.Search.RerankTopK,
		EnableCache:  cfg.Search.EnableCache,
	}

	hybrids := make(map[catalog.Granularity]*retriever.HybridRetriever, len(bundleNames))
	corpora := make(map[catalog.Granularity]catalog.Corpus, len(bundleNames))
	for granularity, name := range bundleNames {
		loaded, err := store.LoadBundle(cfg.IndexDir, name, embedder.ModelName())
		if err != nil {
			return nil, apperr.Wrap(apperr.IndexIncompatible, fmt.Errorf("load bundle %q: %w", name, err))
		}

		bm25 := retriever.NewBM25Retriever(loaded.BM25, loaded.Corpus)
		vector := retriever.NewVectorRetriever(loaded.Vector, embedder, loaded.Corpus)
		hybrids[granularity] = retriever.NewHybridRetriever(bm25, vector, reranker, loaded.Corpus, fusionCfg)
		corpora[granularity] = loaded.Corpus
	}

	hier := retriever.NewHierarchicalRetriever(
		hybrids[catalog.TypeService],
		hybrids[catalog.TypeServiceTool],
		retriever.HierarchicalConfig{
			Stage1TopK: cfg.Search.TopK,
			Stage2TopK: cfg.Search.RerankTopK,
		},
	)

	return &system{embedder: embedder, reranker: reranker, hybrid: hybrids, corpus: corpora, hier: hier}, nil
}

// buildAndSaveIndex takes the parsed tool catalog rows, builds all
// three granularity corpora, embeds each, and persists the resulting
// bundles under cfg.IndexDir. The three builds are CPU/network-bound on
// independent granularities, so they run concurrently via errgroup.
func buildAndSaveIndex(cfg config.Config, rows []catalog.Row) error {
	embedder, _ := newClients(cfg)

	variants, err := catalog.BuildAll(rows)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(context.Background())
	for granularity, name := range bundleNames {
		granularity, name := granularity, name
		g.Go(func() error {
			return buildAndSaveGranularity(ctx, cfg, embedder, name, variants[granularity])
		})
	}

	return g.Wait()
}

func buildAndSaveGranularity(ctx context.Context, cfg config.Config, embedder embed.Embedder, name string, corpus catalog.Corpus) error {
	texts := make([]string, len(corpus))
	for i, doc := range corpus {
		texts[i] = doc.Content
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %s corpus: %w", name, err)
	}

	dims := embedder.Dimensions()
	if dims == 0 && len(vectors) > 0 {
		dims = len(vectors[0])
	}
	vec := store.NewFlatVectorStore(store.VectorStoreConfig{Dimensions: dims})
	if err := vec.Build(vectors); err != nil {
		return fmt.Errorf("build %s vector index: %w", name, err)
	}

	bundle := store.Bundle{
		Corpus: corpus,
		Vector: vec,
		Config: store.BundleConfig{
			EmbeddingModel: embedder.ModelName(),
			TopK:           cfg.Search.TopK,
			BM25Weight:     cfg.Search.BM25Weight,
			VectorWeight:   cfg.Search.VectorWeight,
			RRFConstant:    cfg.Search.RRFConstant,
		},
	}

	if err := store.SaveBundle(cfg.IndexDir, name, bundle); err != nil {
		return fmt.Errorf("save %s bundle: %w", name, err)
	}
	return nil
}
