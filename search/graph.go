package search

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/becomeliminal/cortex/store"
)

// semanticSimPlaceholder is the fixed graph-sourced semantic similarity
// (see design notes: an acknowledged simplification, not asserted as a
// magic constant by callers — only this file depends on its value).
const semanticSimPlaceholder = 0.5

// Expander performs concurrent, bounded, deduplicated k-hop graph
// expansion over typed edges — the core retrieval algorithm.
type Expander struct {
	Store store.Store
}

// NewExpander creates a graph Expander backed by s.
func NewExpander(s store.Store) *Expander {
	return &Expander{Store: s}
}

type neighborList struct {
	label     string // whitelist-checked base label, e.g. "IMPLIES"
	weightKey string // edge-weight table key, e.g. "IMPLIES" or "IMPLIES_IN"
	neighbors []store.Neighbor
}

func listsOf(conns store.LogicalConnections) []neighborList {
	return []neighborList{
		{"IMPLIES", "IMPLIES", conns.ImpliesOut},
		{"IMPLIES", "IMPLIES_IN", conns.ImpliesIn},
		{"BECAUSE", "BECAUSE", conns.BecauseOut},
		{"BECAUSE", "BECAUSE_IN", conns.BecauseIn},
		{"CONTRADICTS", "CONTRADICTS", conns.ContradictsOut},
		{"CONTRADICTS", "CONTRADICTS_IN", conns.ContradictsIn},
		{"MEMORY_RELATION", "MEMORY_RELATION", conns.RelationOut},
		{"MEMORY_RELATION", "MEMORY_RELATION_IN", conns.RelationIn},
	}
}

func whitelisted(label string, edgeTypes []string) bool {
	for _, t := range edgeTypes {
		if strings.EqualFold(strings.TrimSpace(t), label) {
			return true
		}
	}
	return false
}

// Expand fans out one goroutine per seed, each with its own visited-set
// (no cross-seed deduplication at this phase), and returns every emitted
// SearchResult across all seeds.
func (e *Expander) Expand(ctx context.Context, seeds []Result, maxDepth int, edgeTypes []string) []Result {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		all []Result
	)

	for _, seed := range seeds {
		seed := seed
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[SEARCH] graph expansion task for seed %s panicked: %v", seed.MemoryID, r)
				}
			}()

			visited := map[string]bool{seed.MemoryID: true}
			parentScore := seed.Combined
			if parentScore == 0 {
				parentScore = 1.0
			}
			results := e.expandFromNode(ctx, seed.MemoryID, parentScore, 1, maxDepth, visited, edgeTypes)

			mu.Lock()
			all = append(all, results...)
			mu.Unlock()
		}()
	}

	wg.Wait()
	return all
}

type graphCandidate struct {
	result Result
}

// expandFromNode recurses from nodeID. currentDepth is the 1-based hop
// about to be produced; recursion stops once currentDepth reaches
// maxDepth, so a node at hop maxDepth is emitted but never expanded further.
func (e *Expander) expandFromNode(ctx context.Context, nodeID string, parentScore float64, currentDepth, maxDepth int, visited map[string]bool, edgeTypes []string) []Result {
	conns, err := e.Store.GetMemoryLogicalConnections(ctx, nodeID)
	if err != nil {
		log.Printf("[SEARCH] graph expansion: getMemoryLogicalConnections(%s) failed: %v", nodeID, err)
		return nil
	}

	var emitted []Result
	var candidates []graphCandidate

	for _, list := range listsOf(conns) {
		if !whitelisted(list.label, edgeTypes) {
			continue
		}
		for _, n := range list.neighbors {
			if visited[n.MemoryID] {
				continue
			}
			graphScore := EdgeWeight(list.weightKey) * parentScore
			temporalScore := FreshnessFromTime(n.CreatedAt, 30)
			combined := 0.3*semanticSimPlaceholder + 0.5*graphScore + 0.2*temporalScore

			res := Result{
				MemoryID:      n.MemoryID,
				Content:       n.Content,
				Method:        MethodGraph,
				GraphScore:    graphScore,
				TemporalScore: temporalScore,
				SemanticSim:   semanticSimPlaceholder,
				Combined:      combined,
				Source:        "graph",
				EdgePath:      []string{list.label},
				Depth:         1, // always 1 at this hop, per the expansion protocol
				CreatedAt:     n.CreatedAt,
			}
			emitted = append(emitted, res)
			candidates = append(candidates, graphCandidate{result: res})
		}
	}

	if currentDepth < maxDepth && len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].result.GraphScore > candidates[j].result.GraphScore
		})
		top := candidates
		if len(top) > 3 {
			top = top[:3]
		}
		for _, c := range top {
			visited[c.result.MemoryID] = true
			emitted = append(emitted, e.expandFromNode(ctx, c.result.MemoryID, c.result.GraphScore, currentDepth+1, maxDepth, visited, edgeTypes)...)
		}
	}

	return emitted
}
