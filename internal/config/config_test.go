package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.InDelta(t, 1.0, cfg.Search.BM25Weight+cfg.Search.VectorWeight, 1e-9)
}

func TestValidateNormalizesWeights(t *testing.T) {
	cfg := Default()
	cfg.Search.BM25Weight = 1
	cfg.Search.VectorWeight = 3

	require.NoError(t, cfg.Validate())
	require.InDelta(t, 0.25, cfg.Search.BM25Weight, 1e-9)
	require.InDelta(t, 0.75, cfg.Search.VectorWeight, 1e-9)
}

func TestValidateRejectsNonPositiveWeights(t *testing.T) {
	cases := []struct {
		name string
		bm25 float64
		vec  float64
	}{
		{"zero bm25", 0, 0.5},
		{"zero vector", 0.5, 0},
		{"negative bm25", -0.1, 0.5},
		{"both zero", 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Search.BM25Weight = tc.bm25
			cfg.Search.VectorWeight = tc.vec
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidateFillsZeroKnobsWithDefaults(t *testing.T) {
	cfg := Config{Search: SearchConfig{BM25Weight: 1, VectorWeight: 1}}
	require.NoError(t, cfg.Validate())
	require.Equal(t, 10, cfg.Search.TopK)
	require.Equal(t, 10, cfg.Search.RerankTopK)
	require.Equal(t, 60, cfg.Search.RRFConstant)
	require.NotEmpty(t, cfg.IndexDir)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
embedding:
  base_url: https://example.com
  model: bge-m3
rerank:
  base_url: https://example.com
  model: bge-reranker
search:
  bm25_weight: 0.4
  vector_weight: 0.6
  top_k: 20
index_dir: /tmp/toolrouter-index
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "bge-m3", cfg.Embedding.Model)
	require.Equal(t, "bge-reranker", cfg.Rerank.Model)
	require.Equal(t, 20, cfg.Search.TopK)
	require.Equal(t, "/tmp/toolrouter-index", cfg.IndexDir)
	require.InDelta(t, 0.4, cfg.Search.BM25Weight, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
