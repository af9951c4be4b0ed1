// Package search implements retrieval: the temporal freshness scorer, the
// TTL+insertion-order search cache, vector search, the BM25 lexical scorer, hybrid
// blending, the concurrent bounded graph expander, rank/filter, and the
// smart traversal orchestrator that composes all of the above under mode
// presets.
package search

import "time"

// SearchMethod tags where a SearchResult came from.
type SearchMethod int

const (
	MethodVector SearchMethod = iota
	MethodBM25
	MethodHybrid
	MethodGraph
)

func (m SearchMethod) String() string {
	switch m {
	case MethodVector:
		return "vector"
	case MethodBM25:
		return "bm25"
	case MethodHybrid:
		return "hybrid"
	case MethodGraph:
		return "graph"
	default:
		return "vector"
	}
}

// Result is one ranked memory returned by any search path.
type Result struct {
	MemoryID      string
	Content       string
	Method        SearchMethod
	VectorScore   float64
	BM25Score     float64
	GraphScore    float64
	TemporalScore float64
	SemanticSim   float64
	Combined      float64
	Depth         int
	Source        string // "vector" | "graph" | "bm25" | "hybrid"
	EdgePath      []string
	CreatedAt     time.Time

	// seq preserves first-seen order, used to break ties stably.
	seq int
}
