package store

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aman-router/toolrouter/internal/apperr"
	"github.com/aman-router/toolrouter/internal/catalog"
)

// BundleConfig is the persisted config.json inside an index bundle: the
// embedding model identifier the bundle was built with, plus the fusion
// knobs active at build time.
type BundleConfig struct {
	EmbeddingModel string  `json:"embedding_model"`
	TopK           int     `json:"top_k"`
	BM25Weight     float64 `json:"bm25_weight"`
	VectorWeight   float64 `json:"vector_weight"`
	RRFConstant    int     `json:"rrf_k"`
}

// Bundle is a named, persisted pair of Lexical and Vector indexes plus
// the Corpus they were built over. Directory layout under dir:
//
//	documents.bin  - gob-encoded catalog.Corpus
//	vector.idx     - FlatVectorStore.Save output
//	bm25/          - disk-backed Bleve index directory
//	config.json    - BundleConfig
//
// A partial bundle (interrupted mid-write) must never be loadable: Save
// writes every member into a temporary sibling directory, which is
// renamed into place only once complete.
type Bundle struct {
	Corpus catalog.Corpus
	Vector *FlatVectorStore
	Config BundleConfig
}

// LoadedBundle additionally carries the opened BM25 index, ready for
// querying.
type LoadedBundle struct {
	Bundle
	BM25 *BleveBM25Index
}

// SaveBundle writes a bundle atomically under indexDir/name: the Lexical
// Index is rebuilt directly into the temp directory from b.Corpus (Bleve
// has no save-from-memory primitive, and rebuilding from the already-held
// Corpus is cheap relative to the embedding calls that produced Vector).
// A cross-process lock on the target directory serializes concurrent
// builders of the same name.
func SaveBundle(indexDir, name string, b Bundle) error {
	targetDir := filepath.Join(indexDir, name)

	lock := newBundleLock(targetDir)
	if err := lock.Lock(); err != nil {
		return apperr.Wrap(apperr.IoError, err)
	}
	defer lock.Unlock()

	tmpDir, err := os.MkdirTemp(indexDir, name+".tmp-")
	if err != nil {
		return apperr.Wrap(apperr.IoError, fmt.Errorf("create temp bundle dir: %w", err))
	}
	defer os.RemoveAll(tmpDir)

	if err := saveDocuments(filepath.Join(tmpDir, "documents.bin"), b.Corpus); err != nil {
		return apperr.Wrap(apperr.IoError, err)
	}

	if err := b.Vector.Save(filepath.Join(tmpDir, "vector.idx")); err != nil {
		return apperr.Wrap(apperr.IoError, err)
	}

	if err := saveConfig(filepath.Join(tmpDir, "config.json"), b.Config); err != nil {
		return apperr.Wrap(apperr.IoError, err)
	}

	docs := make([]Document, len(b.Corpus))
	for i, d := range b.Corpus {
		docs[i] = Document{ID: d.ID(), Content: d.Content}
	}
	bm25, err := NewBleveBM25Index(filepath.Join(tmpDir, "bm25"), DefaultBM25Config())
	if err != nil {
		return apperr.Wrap(apperr.IoError, err)
	}
	if err := bm25.Build(context.Background(), docs); err != nil {
		_ = bm25.Close()
		return apperr.Wrap(apperr.IoError, err)
	}
	if err := bm25.Close(); err != nil {
		return apperr.Wrap(apperr.IoError, err)
	}

	_ = os.RemoveAll(targetDir)
	if err := os.Rename(tmpDir, targetDir); err != nil {
		return apperr.Wrap(apperr.IoError, fmt.Errorf("rename bundle into place: %w", err))
	}

	return nil
}

// LoadBundle reads a previously-saved bundle, validating that the
// document count matches the vector index row count and that the
// embedding model id matches expectedModel.
func LoadBundle(indexDir, name, expectedModel string) (LoadedBundle, error) {
	dir := filepath.Join(indexDir, name)

	corpus, err := loadDocuments(filepath.Join(dir, "documents.bin"))
	if err != nil {
		return LoadedBundle{}, apperr.Wrap(apperr.IoError, err)
	}

	cfg, err := loadConfig(filepath.Join(dir, "config.json"))
	if err != nil {
		return LoadedBundle{}, apperr.Wrap(apperr.IoError, err)
	}

	vec := NewFlatVectorStore(VectorStoreConfig{})
	if err := vec.Load(filepath.Join(dir, "vector.idx")); err != nil {
		return LoadedBundle{}, apperr.Wrap(apperr.IoError, err)
	}

	if vec.Count() != len(corpus) {
		return LoadedBundle{}, apperr.New(apperr.IndexIncompatible,
			fmt.Sprintf("document count %d does not match vector index row count %d", len(corpus), vec.Count()), nil)
	}
	if expectedModel != "" && cfg.EmbeddingModel != expectedModel {
		return LoadedBundle{}, apperr.New(apperr.IndexIncompatible,
			fmt.Sprintf("bundle %q was built with embedding model %q, current client uses %q", name, cfg.EmbeddingModel, expectedModel), nil)
	}

	bm25, err := NewBleveBM25Index("", DefaultBM25Config())
	if err != nil {
		return LoadedBundle{}, apperr.Wrap(apperr.IoError, err)
	}
	if err := bm25.Load(filepath.Join(dir, "bm25")); err != nil {
		return LoadedBundle{}, apperr.Wrap(apperr.IoError, err)
	}

	return LoadedBundle{
		Bundle: Bundle{Corpus: corpus, Vector: vec, Config: cfg},
		BM25:   bm25,
	}, nil
}

func saveDocuments(path string, corpus catalog.Corpus) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create documents.bin: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(corpus); err != nil {
		return fmt.Errorf("encode documents.bin: %w", err)
	}
	return nil
}

func loadDocuments(path string) (catalog.Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open documents.bin: %w", err)
	}
	defer file.Close()

	var corpus catalog.Corpus
	if err := gob.NewDecoder(file).Decode(&corpus); err != nil {
		return nil, fmt.Errorf("decode documents.bin: %w", err)
	}
	return corpus, nil
}

func saveConfig(path string, cfg BundleConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config.json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config.json: %w", err)
	}
	return nil
}

func loadConfig(path string) (BundleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BundleConfig{}, fmt.Errorf("read config.json: %w", err)
	}
	var cfg BundleConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return BundleConfig{}, fmt.Errorf("parse config.json: %w", err)
	}
	return cfg, nil
}
