package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/becomeliminal/cortex/search"
	"github.com/becomeliminal/cortex/store"
)

// fakeStore is a minimal store.Store double: only GetMemoryLogicalConnections
// is meaningful, the rest are unused zero-value stubs so fakeStore satisfies
// the full interface.
type fakeStore struct {
	connections map[string]store.LogicalConnections
}

func (f *fakeStore) GetMemoryLogicalConnections(ctx context.Context, memoryID string) (store.LogicalConnections, error) {
	return f.connections[memoryID], nil
}

func (f *fakeStore) VectorSearch(ctx context.Context, in store.VectorSearchInput) ([]store.MemoryHit, error) {
	return nil, nil
}
func (f *fakeStore) SmartVectorSearchWithChunks(ctx context.Context, queryVector []float64, limit int) ([]store.MemoryHit, []store.ChunkHit, error) {
	return nil, nil, nil
}
func (f *fakeStore) GetMemory(ctx context.Context, memoryID string) (store.MemoryRecord, error) {
	return store.MemoryRecord{}, nil
}
func (f *fakeStore) AddMemory(ctx context.Context, in store.AddMemoryInput) (string, error) {
	return "", nil
}
func (f *fakeStore) UpdateMemory(ctx context.Context, memoryID string, content string, vector []float64) error {
	return nil
}
func (f *fakeStore) UpdateMemoryByID(ctx context.Context, internalID string, content string, certainty, importance int, updatedAt time.Time) error {
	return nil
}
func (f *fakeStore) DeleteMemory(ctx context.Context, memoryID string) error { return nil }
func (f *fakeStore) AddMemoryEmbedding(ctx context.Context, internalID string, vector []float64, model string, createdAt time.Time) error {
	return nil
}
func (f *fakeStore) LinkUserToMemory(ctx context.Context, userID, memoryID, context string) error {
	return nil
}
func (f *fakeStore) AddMemoryImplication(ctx context.Context, fromID, toID string, strength int, createdAt time.Time) error {
	return nil
}
func (f *fakeStore) AddMemoryCausation(ctx context.Context, fromID, toID string, strength int, createdAt time.Time) error {
	return nil
}
func (f *fakeStore) AddMemoryContradiction(ctx context.Context, fromID, toID string, strength int, createdAt time.Time, resolved bool, resolutionStrategy string) error {
	return nil
}
func (f *fakeStore) AddReasoningRelation(ctx context.Context, relationID, fromID, toID string, strength int, explanation, createdBy string, createdAt time.Time) error {
	return nil
}
func (f *fakeStore) GetRecentRelations(ctx context.Context, limit int, memoryID string) ([]store.RecentRelation, error) {
	return nil, nil
}
func (f *fakeStore) GetUserMemories(ctx context.Context, userID string, limit int) ([]store.MemoryRecord, error) {
	return nil, nil
}
func (f *fakeStore) GetMemoryConcepts(ctx context.Context, memoryID string) (store.ConceptLinks, error) {
	return store.ConceptLinks{}, nil
}
func (f *fakeStore) LinkMemoryToInstanceOf(ctx context.Context, memoryID, conceptID string, confidence int) error {
	return nil
}
func (f *fakeStore) Close() error { return nil }

func neighbor(id string) store.Neighbor {
	return store.Neighbor{MemoryID: id, Content: id, CreatedAt: time.Now()}
}

// TestExpandBoundedByDepth is spec concrete scenario 3: a chain
// A -IMPLIES-> B -IMPLIES-> C -IMPLIES-> D with graph_depth=2 must surface
// at most {A, B, C}, and D must never be fetched or emitted.
func TestExpandBoundedByDepth(t *testing.T) {
	fs := &fakeStore{connections: map[string]store.LogicalConnections{
		"A": {ImpliesOut: []store.Neighbor{neighbor("B")}},
		"B": {ImpliesOut: []store.Neighbor{neighbor("C")}},
		"C": {ImpliesOut: []store.Neighbor{neighbor("D")}},
		"D": {ImpliesOut: []store.Neighbor{neighbor("unreachable")}},
	}}

	expander := search.NewExpander(fs)
	seeds := []search.Result{{MemoryID: "A", Combined: 1.0}}
	results := expander.Expand(context.Background(), seeds, 2, []string{"IMPLIES"})

	seen := map[string]bool{}
	for _, r := range results {
		seen[r.MemoryID] = true
		if r.Depth > 2 {
			t.Errorf("result %s has depth %d, want <= 2", r.MemoryID, r.Depth)
		}
	}
	if !seen["B"] || !seen["C"] {
		t.Fatalf("expected B and C in results, got %+v", results)
	}
	if seen["D"] {
		t.Fatalf("D must never be emitted at graph_depth=2, got %+v", results)
	}
}

// TestExpandFanOutCappedAtThree verifies per-node continuation fan-out never
// exceeds 3, even when more than 3 candidates are available at a node.
func TestExpandFanOutCappedAtThree(t *testing.T) {
	fs := &fakeStore{connections: map[string]store.LogicalConnections{
		"A": {ImpliesOut: []store.Neighbor{
			neighbor("B1"), neighbor("B2"), neighbor("B3"), neighbor("B4"), neighbor("B5"),
		}},
		"B1": {ImpliesOut: []store.Neighbor{neighbor("C1")}},
		"B2": {ImpliesOut: []store.Neighbor{neighbor("C2")}},
		"B3": {ImpliesOut: []store.Neighbor{neighbor("C3")}},
		"B4": {ImpliesOut: []store.Neighbor{neighbor("C4")}}, // must never be expanded
		"B5": {ImpliesOut: []store.Neighbor{neighbor("C5")}}, // must never be expanded
	}}

	expander := search.NewExpander(fs)
	seeds := []search.Result{{MemoryID: "A", Combined: 1.0}}
	results := expander.Expand(context.Background(), seeds, 2, []string{"IMPLIES"})

	seen := map[string]bool{}
	for _, r := range results {
		seen[r.MemoryID] = true
	}
	continuations := 0
	for _, c := range []string{"C1", "C2", "C3", "C4", "C5"} {
		if seen[c] {
			continuations++
		}
	}
	if continuations > 3 {
		t.Fatalf("expected at most 3 continuation hops, got %d: %+v", continuations, results)
	}
}

// TestExpandNeverRevisitsWithinOneSearch is invariant 2/3's no-duplicate
// clause applied to a single seed's traversal: a diamond graph (A->B, A->C,
// B->D, C->D) must not emit D twice.
func TestExpandNeverRevisitsWithinOneSearch(t *testing.T) {
	fs := &fakeStore{connections: map[string]store.LogicalConnections{
		"A": {ImpliesOut: []store.Neighbor{neighbor("B"), neighbor("C")}},
		"B": {ImpliesOut: []store.Neighbor{neighbor("D")}},
		"C": {ImpliesOut: []store.Neighbor{neighbor("D")}},
	}}

	expander := search.NewExpander(fs)
	seeds := []search.Result{{MemoryID: "A", Combined: 1.0}}
	results := expander.Expand(context.Background(), seeds, 3, []string{"IMPLIES"})

	count := 0
	for _, r := range results {
		if r.MemoryID == "D" {
			count++
		}
	}
	if count > 1 {
		t.Fatalf("D emitted %d times, want at most 1 (per-seed visited-set)", count)
	}
}
