package search

import (
	"context"
	"time"

	"github.com/becomeliminal/cortex/store"
)

// EngineConfig tunes the search engine's shared facilities. A zero
// CacheSize or CacheTTL falls back to NewCache's defaults; VectorWeight and
// BM25Weight are used as given, zero included.
type EngineConfig struct {
	CacheSize    int
	CacheTTL     time.Duration
	VectorWeight float64
	BM25Weight   float64
}

// DefaultEngineConfig returns the documented defaults (500-entry cache,
// 5-minute TTL, 0.6/0.4 hybrid blend).
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{CacheSize: 500, CacheTTL: 5 * time.Minute, VectorWeight: 0.6, BM25Weight: 0.4}
}

// Engine is the outer façade dispatching by search method/mode: plain
// vector, BM25, hybrid, or smart graph traversal.
type Engine struct {
	Store     store.Store
	Vector    *VectorSearch
	BM25      *BM25
	Hybrid    *Hybrid
	Traversal *Traversal
	Cache     *Cache
}

// NewEngine wires a search Engine over s with the given configuration.
func NewEngine(s store.Store, cfg EngineConfig) *Engine {
	cache := NewCache(cfg.CacheSize, cfg.CacheTTL)
	vector := NewVectorSearch(s, cache)
	bm25 := NewBM25()
	hybrid := &Hybrid{Vector: vector, BM25: bm25, VectorWeight: cfg.VectorWeight, BM25Weight: cfg.BM25Weight}
	expander := NewExpander(s)
	traversal := NewTraversal(vector, expander)

	return &Engine{
		Store:     s,
		Vector:    vector,
		BM25:      bm25,
		Hybrid:    hybrid,
		Traversal: traversal,
		Cache:     cache,
	}
}

// SmartSearch resolves mode to a Config/temporal cutoff via ModePreset and
// runs the three-phase traversal. Unknown modes fall back to plain vector
// search, per the documented fallback behavior.
func (e *Engine) SmartSearch(ctx context.Context, query string, queryEmbedding []float64, userID string, mode Mode, limit int) ([]Result, Stats, error) {
	cfg, temporalCutoffDays, ok := ModePreset(mode, limit)
	if !ok {
		results, err := e.Vector.Search(ctx, query, userID, limit, DefaultConfig().MinVectorScore, true)
		if err != nil {
			return nil, Stats{}, err
		}
		return results, Stats{VectorSeeds: len(results), TotalResults: len(results)}, nil
	}
	return e.Traversal.Search(ctx, query, queryEmbedding, userID, cfg, temporalCutoffDays)
}

// VectorOnly runs plain vector search without graph expansion.
func (e *Engine) VectorOnly(ctx context.Context, query, userID string, limit int, minScore float64) ([]Result, error) {
	return e.Vector.Search(ctx, query, userID, limit, minScore, true)
}

// Lexical runs plain BM25 search over the given in-memory document list.
func (e *Engine) Lexical(query string, docs []Document, limit int) []Result {
	return e.BM25.Search(query, docs, limit)
}

// HybridSearch runs blended vector+BM25 search over the given document list.
func (e *Engine) HybridSearch(ctx context.Context, query, userID string, docs []Document, limit int, minVectorScore float64) ([]Result, error) {
	return e.Hybrid.Search(ctx, query, userID, docs, limit, minVectorScore)
}
