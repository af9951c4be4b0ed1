package search

import (
	"context"

	"github.com/becomeliminal/cortex/memory"
	"github.com/becomeliminal/cortex/store"
)

// VectorSearch queries the store for top-K embedding neighbors, caching
// through a shared Cache.
type VectorSearch struct {
	Store store.Store
	Cache *Cache
}

// NewVectorSearch creates a VectorSearch backed by s, caching via cache.
func NewVectorSearch(s store.Store, cache *Cache) *VectorSearch {
	return &VectorSearch{Store: s, Cache: cache}
}

// Search runs a vector query, consulting/populating the cache when useCache
// is true. Store errors surface as Database-kind errors.
func (v *VectorSearch) Search(ctx context.Context, query, userID string, limit int, minScore float64, useCache bool) ([]Result, error) {
	key := CacheKey(query, userID, limit, minScore)
	if useCache {
		if cached, ok := v.Cache.Get(key); ok {
			return cached, nil
		}
	}

	hits, err := v.Store.VectorSearch(ctx, store.VectorSearchInput{
		Query: query, UserID: userID, Limit: limit, MinScore: minScore,
	})
	if err != nil {
		return nil, memory.NewError(memory.KindDatabase, "vector_search", err)
	}

	results := make([]Result, 0, len(hits))
	for i, h := range hits {
		temporal := FreshnessFromTime(h.CreatedAt, 30)
		results = append(results, Result{
			MemoryID:      h.MemoryID,
			Content:       h.Content,
			Method:        MethodVector,
			VectorScore:   h.SimilarityScore,
			TemporalScore: temporal,
			Combined:      0.7*h.SimilarityScore + 0.3*temporal,
			Source:        "vector",
			CreatedAt:     h.CreatedAt,
			seq:           i,
		})
	}

	if useCache {
		v.Cache.Set(key, results)
	}
	return results, nil
}
