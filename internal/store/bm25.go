package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
	"github.com/blevesearch/bleve/v2/search"

	"github.com/aman-router/toolrouter/internal/tokenize"
)

const (
	// catalogTokenizerName is the name of the script-aware custom tokenizer.
	catalogTokenizerName = "catalog_tokenizer"

	// catalogAnalyzerName is the name of the custom analyzer built from it.
	catalogAnalyzerName = "catalog_analyzer"
)

func init() {
	_ = registry.RegisterTokenizer(catalogTokenizerName, catalogTokenizerConstructor)
}

// BleveBM25Index wraps Bleve v2 for BM25 keyword search over a corpus
// addressed by position: the Bleve document ID is the decimal corpus
// position, so a hit can be mapped straight back to the caller's document
// slice without a side table.
type BleveBM25Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	config BM25Config
	closed bool
	docs   int
}

// catalogDocument is the document structure for Bleve indexing.
type catalogDocument struct {
	Content string `json:"content"`
}

// NewBleveBM25Index creates a new BM25 index. If path is empty, an
// in-memory index is created (used for tests and ephemeral evaluation
// runs).
func NewBleveBM25Index(path string, config BM25Config) (*BleveBM25Index, error) {
	indexMapping, err := createCatalogMapping()
	if err != nil {
		return nil, fmt.Errorf("failed to create index mapping: %w", err)
	}

	var idx bleve.Index
	if path == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
	} else {
		idx, err = bleve.New(path, indexMapping)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BleveBM25Index{index: idx, path: path, config: config}, nil
}

// createCatalogMapping builds the Bleve index mapping using the
// script-aware tokenizer as the default analyzer.
func createCatalogMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(catalogAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": catalogTokenizerName,
		"token_filters": []string{
			lowercase.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}

	indexMapping.DefaultAnalyzer = catalogAnalyzerName
	return indexMapping, nil
}

// Build indexes docs in corpus order, replacing any previous contents.
func (b *BleveBM25Index) Build(ctx context.Context, docs []Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	batch := b.index.NewBatch()
	for position, doc := range docs {
		bleveDoc := catalogDocument{Content: doc.Content}
		id := strconv.Itoa(position)
		if err := batch.Index(id, bleveDoc); err != nil {
			return fmt.Errorf("failed to index document at position %d: %w", position, err)
		}
	}

	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	b.docs = len(docs)
	return nil
}

// Search returns documents matching query, scored by BM25 and tie-broken
// by ascending corpus position.
func (b *BleveBM25Index) Search(ctx context.Context, queryStr string, limit int) ([]BM25Result, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	if strings.TrimSpace(queryStr) == "" {
		return nil, nil
	}

	matchQuery := bleve.NewMatchQuery(queryStr)
	matchQuery.SetField("content")

	// Bleve breaks ties in score order arbitrarily; request every hit and
	// re-sort deterministically by (score desc, position asc) ourselves.
	searchRequest := bleve.NewSearchRequest(matchQuery)
	searchRequest.Size = b.docs
	searchRequest.IncludeLocations = true

	result, err := b.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]BM25Result, 0, len(result.Hits))
	for _, hit := range result.Hits {
		position, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		results = append(results, BM25Result{
			Position:     position,
			Score:        hit.Score,
			MatchedTerms: extractMatchedTerms(hit),
		})
	}

	sortBM25Results(results)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// sortBM25Results orders by descending score, ties broken by ascending
// corpus position for determinism.
func sortBM25Results(results []BM25Result) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0; j-- {
			a, bb := results[j-1], results[j]
			if a.Score > bb.Score || (a.Score == bb.Score && a.Position <= bb.Position) {
				break
			}
			results[j-1], results[j] = results[j], results[j-1]
		}
	}
}

// Stats returns index statistics.
func (b *BleveBM25Index) Stats() IndexStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return IndexStats{}
	}

	docCount, _ := b.index.DocCount()
	return IndexStats{DocumentCount: int(docCount)}
}

// Save persists the index to disk; for a disk-backed Bleve index this is
// a no-op since Bleve persists each batch as it is applied. For an
// in-memory index built with an empty path, Save is unsupported.
func (b *BleveBM25Index) Save(path string) error {
	if b.path == "" {
		return fmt.Errorf("cannot save an in-memory BM25 index")
	}
	return nil
}

// Load opens an existing index from disk.
func (b *BleveBM25Index) Load(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.index != nil && !b.closed {
		_ = b.index.Close()
	}

	idx, err := bleve.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}

	docCount, _ := idx.DocCount()
	b.index = idx
	b.path = path
	b.closed = false
	b.docs = int(docCount)

	return nil
}

// Close closes the index.
func (b *BleveBM25Index) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.index != nil {
		return b.index.Close()
	}
	return nil
}

// extractMatchedTerms extracts matched terms from a search hit.
func extractMatchedTerms(hit *search.DocumentMatch) []string {
	terms := make(map[string]struct{})
	for field, locations := range hit.Locations {
		if field == "content" {
			for term := range locations {
				terms[term] = struct{}{}
			}
		}
	}

	result := make([]string, 0, len(terms))
	for term := range terms {
		result = append(result, term)
	}
	return result
}

var _ BM25Index = (*BleveBM25Index)(nil)

// catalogTokenizerConstructor creates the script-aware tokenizer for Bleve.
func catalogTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &bleveCatalogTokenizer{}, nil
}

// bleveCatalogTokenizer adapts tokenize.Tokenize to analysis.Tokenizer.
type bleveCatalogTokenizer struct{}

func (t *bleveCatalogTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	tokens := tokenize.Tokenize(text)

	result := make(analysis.TokenStream, 0, len(tokens))
	pos := 1
	offset := 0

	for _, token := range tokens {
		start := strings.Index(strings.ToLower(text[offset:]), strings.ToLower(token))
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(token)

		result = append(result, &analysis.Token{
			Term:     []byte(token),
			Start:    start,
			End:      end,
			Position: pos,
			Type:     analysis.AlphaNumeric,
		})
		pos++
		if end <= len(text) {
			offset = end
		}
	}

	return result
}
