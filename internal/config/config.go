package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aman-router/toolrouter/internal/apperr"
)

// Config represents the complete toolrouter configuration, covering the
// embedding/rerank remote services, fusion weights, and index location.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding" json:"embedding"`
	Rerank    RerankConfig    `yaml:"rerank" json:"rerank"`
	Search    SearchConfig    `yaml:"search" json:"search"`
	IndexDir  string          `yaml:"index_dir" json:"index_dir"`
}

// EmbeddingConfig configures the remote embedding service.
type EmbeddingConfig struct {
	APIKey  string `yaml:"api_key" json:"api_key"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	Model   string `yaml:"model" json:"model"`
}

// RerankConfig configures the remote reranking service.
type RerankConfig struct {
	APIKey  string `yaml:"api_key" json:"api_key"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	Model   string `yaml:"model" json:"model"`
}

// SearchConfig configures hybrid retrieval fusion parameters.
//
// BM25Weight and VectorWeight are normalized to sum to 1.0 by Validate;
// both must be strictly positive (a zero weight would silently disable a
// retrieval modality, which this package treats as a config error rather
// than a legal "opt out").
type SearchConfig struct {
	BM25Weight   float64 `yaml:"bm25_weight" json:"bm25_weight"`
	VectorWeight float64 `yaml:"vector_weight" json:"vector_weight"`
	TopK         int     `yaml:"top_k" json:"top_k"`
	RerankTopK   int     `yaml:"rerank_top_k" json:"rerank_top_k"`
	RRFConstant  int     `yaml:"rrf_k" json:"rrf_k"`
	EnableCache  bool    `yaml:"enable_cache" json:"enable_cache"`
}

// Default returns the baseline configuration: equal-weighted fusion,
// matching the 0.5/0.5 default used throughout the retrieval scenarios.
func Default() Config {
	return Config{
		Search: SearchConfig{
			BM25Weight:   0.5,
			VectorWeight: 0.5,
			TopK:         10,
			RerankTopK:   5,
			RRFConstant:  60,
			EnableCache:  true,
		},
		IndexDir: DefaultIndexDir(),
	}
}

// Load reads and parses a YAML configuration file, filling any unset
// fields from Default, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, apperr.New(apperr.IoError, fmt.Sprintf("key %q: read config file", path), err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperr.New(apperr.IoError, fmt.Sprintf("key %q: parse config file", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects non-positive fusion weights and normalizes the pair
// to sum to 1.0. It also fills non-positive top_k (10), rerank_top_k
// (set to top_k), rrf_k (60) and an empty index_dir (DefaultIndexDir).
func (c *Config) Validate() error {
	if c.Search.BM25Weight <= 0 || c.Search.VectorWeight <= 0 {
		return apperr.New(apperr.IoError,
			fmt.Sprintf("key \"bm25_weight\"/\"vector_weight\": must both be positive, got %v/%v",
				c.Search.BM25Weight, c.Search.VectorWeight), nil)
	}

	sum := c.Search.BM25Weight + c.Search.VectorWeight
	c.Search.BM25Weight /= sum
	c.Search.VectorWeight /= sum

	if c.Search.TopK <= 0 {
		c.Search.TopK = 10
	}
	if c.Search.RerankTopK <= 0 {
		c.Search.RerankTopK = c.Search.TopK
	}
	if c.Search.RRFConstant <= 0 {
		c.Search.RRFConstant = 60
	}
	if c.IndexDir == "" {
		c.IndexDir = DefaultIndexDir()
	}

	return nil
}

// DefaultIndexDir returns the default location for persisted index bundles
// (~/.toolrouter/index). Falls back to the temp directory if the home
// directory is unavailable.
func DefaultIndexDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".toolrouter", "index")
	}
	return filepath.Join(home, ".toolrouter", "index")
}

// GetUserConfigPath returns the path to the user configuration file
// (~/.config/toolrouter/config.yaml).
func GetUserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".toolrouter", "config.yaml")
	}
	return filepath.Join(home, ".config", "toolrouter", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
