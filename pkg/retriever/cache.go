package retriever

import lru "github.com/hashicorp/golang-lru/v2"

// defaultCacheSize bounds the process-local query cache; it holds
// recently-seen (method, query, k) results, not the corpus itself.
const defaultCacheSize = 512

type cacheKey struct {
	method string
	query  string
	k      int
}

// queryCache is single-writer-many-reader safe via the underlying
// lru.Cache's internal locking. A nil *queryCache is a valid no-op
// cache, used when EnableCache is false.
type queryCache struct {
	lru *lru.Cache[cacheKey, Ranking]
}

func newQueryCache(enabled bool) *queryCache {
	if !enabled {
		return nil
	}
	c, err := lru.New[cacheKey, Ranking](defaultCacheSize)
	if err != nil {
		// Only fails for a non-positive size, which defaultCacheSize never is.
		return nil
	}
	return &queryCache{lru: c}
}

func (c *queryCache) get(method, query string, k int) (Ranking, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(cacheKey{method, query, k})
}

func (c *queryCache) put(method, query string, k int, r Ranking) {
	if c == nil {
		return
	}
	c.lru.Add(cacheKey{method, query, k}, r)
}
