// Package store provides the Lexical (BM25) and Vector (flat L2) indexes,
// and their on-disk persistence as a named index bundle.
package store

import (
	"context"
	"fmt"
)

// Document represents a single indexed unit: opaque content plus the id it
// is addressed by. Corpus position (not ID) is the canonical identifier
// used inside the indexes, and BleveBM25Index does not read ID;
// pkg/retriever takes the fusion identity from the catalog Corpus by
// position.
type Document struct {
	ID      string
	Content string
}

// BM25Result represents a single BM25 search result, identified by corpus
// position so callers can align it back to their owned document slice.
type BM25Result struct {
	Position     int
	Score        float64
	MatchedTerms []string
}

// IndexStats provides statistics about the BM25 index.
type IndexStats struct {
	DocumentCount int
	TermCount     int
	AvgDocLength  float64
}

// BM25Index provides keyword search using the BM25 Okapi algorithm. Ties in
// score are broken by ascending corpus position so that results are
// deterministic for a fixed corpus and query.
type BM25Index interface {
	// Build indexes docs in corpus order, replacing any previous contents.
	Build(ctx context.Context, docs []Document) error

	// Search returns the top limit documents matching query, scored by
	// BM25 and tie-broken by corpus position.
	Search(ctx context.Context, query string, limit int) ([]BM25Result, error)

	// Stats returns index statistics.
	Stats() IndexStats

	// Persistence
	Save(path string) error
	Load(path string) error
	Close() error
}

// BM25Config configures the BM25 index. BleveBM25Index stores it but
// does not pass it to Bleve: scoring comes from Bleve, and which tokens
// are indexed is decided by internal/tokenize (tokenize.MinTokenLength).
type BM25Config struct {
	// K1 is the term frequency saturation parameter (default: 1.2).
	K1 float64
	// B is the length normalization parameter (default: 0.75).
	B float64
	// MinTokenLength is the minimum token length setting (default: 1).
	// The tokenizer itself drops tokens shorter than 2 runes.
	MinTokenLength int
}

// DefaultBM25Config returns default BM25 configuration.
func DefaultBM25Config() BM25Config {
	return BM25Config{
		K1:             1.2,
		B:              0.75,
		MinTokenLength: 1,
	}
}

// VectorResult represents a single vector search result, identified by
// corpus position.
type VectorResult struct {
	Position int
	Distance float32 // squared L2 distance; lower is more similar
}

// VectorStoreConfig configures the vector index.
type VectorStoreConfig struct {
	// Dimensions is the vector dimension, fixed at build time.
	Dimensions int
}

// VectorStore provides exact nearest-neighbor search over dense vectors
// using flat (brute-force) L2 distance, appropriate for the low-thousands
// catalog sizes this system targets.
type VectorStore interface {
	// Build copies the N x d matrix of vectors, rejecting any row whose
	// dimension does not match Dimensions.
	Build(vectors [][]float32) error

	// Search returns the k nearest rows to query by L2 distance.
	Search(query []float32, k int) ([]VectorResult, error)

	// Dimensions reports the configured vector dimension.
	Dimensions() int

	// Count reports the number of indexed rows.
	Count() int

	// Persistence
	Save(path string) error
	Load(path string) error
}

// ErrDimensionMismatch indicates a vector dimension mismatch against the
// store's configured dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}
