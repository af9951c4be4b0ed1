// Package pipeline implements the write pipeline orchestrator and the
// read-side operations layered on top of it: extraction → per-memory
// reconciliation → persistence → cross-linking, plus memory-graph BFS,
// reasoning-chain search, and concept search.
package pipeline

import "github.com/becomeliminal/cortex/reasoning"

// AddMemoryResult is the outcome of one write-pipeline ingestion call.
// Partial success is surfaced here, never masked as a failure.
type AddMemoryResult struct {
	Added                     []string
	Updated                   []string
	Deleted                   []string
	Skipped                   int
	EntitiesLinked            int
	ReasoningRelationsCreated int
	ChunksCreated             int
	Metadata                  map[string]string
}

// GraphEdge is one directed, labeled edge in a memory graph view.
type GraphEdge struct {
	FromID string
	ToID   string
	Type   string // IMPLIES | BECAUSE | CONTRADICTS | SUPPORTS
}

// Graph is a BFS-bounded neighborhood view of the reasoning graph around one
// or more root memories.
type Graph struct {
	NodeIDs []string
	Edges   []GraphEdge
}

// ReasoningChainResult collects per-seed reasoning chains from
// search_reasoning_chain.
type ReasoningChainResult struct {
	Chains        []reasoning.Chain
	TotalMemories int
	DeepestChain  int
}
