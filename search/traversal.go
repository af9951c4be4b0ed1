package search

import (
	"context"
	"time"
)

// Stats is observability data reported alongside a traversal's ranked
// results (additive — it never changes ranking semantics).
type Stats struct {
	CacheHits       int64
	CacheMisses     int64
	VectorSeeds     int
	GraphExpansions int
	TotalResults    int
}

// Traversal composes the smart traversal orchestrator's three phases:
// vector seed, concurrent bounded graph expansion, rank/filter.
type Traversal struct {
	Vector *VectorSearch
	Graph  *Expander
}

// NewTraversal creates a Traversal over the given vector search and
// graph expander.
func NewTraversal(vector *VectorSearch, graph *Expander) *Traversal {
	return &Traversal{Vector: vector, Graph: graph}
}

// Search runs phase1 (vector seed) → phase2 (graph expansion) → phase3
// (rank/filter). queryEmbedding is accepted for parity with the documented
// signature and for future true-semantic-similarity scoring (see design
// notes on the semantic_sim placeholder); it is not required by the
// default graph expander. temporalCutoffDays, when non-nil, filters phase 1
// seeds only — memories reached via the graph are kept regardless of age.
func (t *Traversal) Search(ctx context.Context, query string, queryEmbedding []float64, userID string, cfg Config, temporalCutoffDays *int) ([]Result, Stats, error) {
	seeds, err := t.Vector.Search(ctx, query, userID, cfg.VectorTopK, cfg.MinVectorScore, true)
	if err != nil {
		return nil, Stats{}, err
	}

	if temporalCutoffDays != nil {
		cutoff := time.Duration(*temporalCutoffDays) * 24 * time.Hour
		filtered := seeds[:0:0]
		for _, s := range seeds {
			if time.Since(s.CreatedAt) <= cutoff {
				filtered = append(filtered, s)
			}
		}
		seeds = filtered
	}

	graphResults := t.Graph.Expand(ctx, seeds, cfg.GraphDepth, cfg.EdgeTypes)

	merged := make([]Result, 0, len(seeds)+len(graphResults))
	merged = append(merged, seeds...)
	merged = append(merged, graphResults...)
	ranked := RankAndFilter(merged, cfg.MinCombinedScore)

	hits, misses := t.Vector.Cache.Stats()
	stats := Stats{
		CacheHits:       hits,
		CacheMisses:     misses,
		VectorSeeds:     len(seeds),
		GraphExpansions: len(graphResults),
		TotalResults:    len(ranked),
	}
	return ranked, stats, nil
}
