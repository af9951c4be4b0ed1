package reasoning_test

import (
	"context"
	"testing"
	"time"

	"github.com/becomeliminal/cortex/memory"
	"github.com/becomeliminal/cortex/reasoning"
	"github.com/becomeliminal/cortex/store"
)

// recordingStore captures relation writes and answers getMemoryLogicalConnections
// from a fixed table, enough to drive the chain walker.
type recordingStore struct {
	store.Store // embed nil interface: only overridden methods below are called in these tests
	connections map[string]store.LogicalConnections
	strengths   []int
}

func (s *recordingStore) AddMemoryImplication(ctx context.Context, fromID, toID string, strength int, createdAt time.Time) error {
	s.strengths = append(s.strengths, strength)
	return nil
}
func (s *recordingStore) GetMemoryLogicalConnections(ctx context.Context, memoryID string) (store.LogicalConnections, error) {
	return s.connections[memoryID], nil
}

func TestAddRelationClampsStrength(t *testing.T) {
	s := &recordingStore{}
	e := reasoning.New(s, nil, 10)

	if _, err := e.AddRelation(context.Background(), "mem_a", "mem_b", memory.Implies, 500, ""); err != nil {
		t.Fatalf("AddRelation() error = %v", err)
	}
	if _, err := e.AddRelation(context.Background(), "mem_a", "mem_c", memory.Implies, -30, ""); err != nil {
		t.Fatalf("AddRelation() error = %v", err)
	}
	if len(s.strengths) != 2 || s.strengths[0] != 100 || s.strengths[1] != 0 {
		t.Fatalf("recorded strengths = %v, want [100 0]", s.strengths)
	}
}

// stubLLM returns a fixed response regardless of prompt, for the chain
// walker's tie-break test.
type stubLLM struct{ response string }

func (l *stubLLM) Generate(ctx context.Context, systemPrompt, userPrompt, format string) (string, map[string]string, error) {
	return l.response, nil, nil
}
func (l *stubLLM) ProviderName() string { return "stub" }
func (l *stubLLM) ModelName() string    { return "stub-model" }

func threeCandidateConns() store.LogicalConnections {
	return store.LogicalConnections{
		ImpliesOut: []store.Neighbor{
			{MemoryID: "cand_1"},
			{MemoryID: "cand_2"},
			{MemoryID: "cand_3"},
		},
	}
}

// TestChainWalkerLLMTieBreakValidIndex is spec concrete scenario 4.
func TestChainWalkerLLMTieBreakValidIndex(t *testing.T) {
	s := &recordingStore{connections: map[string]store.LogicalConnections{
		"seed": threeCandidateConns(),
	}}
	e := reasoning.New(s, &stubLLM{response: "2"}, 10)

	chain, err := e.GetChain(context.Background(), "seed", "forward", 1)
	if err != nil {
		t.Fatalf("GetChain() error = %v", err)
	}
	if len(chain.Steps) != 1 || chain.Steps[0].ToID != "cand_2" {
		t.Fatalf("GetChain() steps = %+v, want single step to cand_2", chain.Steps)
	}
}

func TestChainWalkerLLMTieBreakInvalidResponseDefaultsToFirst(t *testing.T) {
	s := &recordingStore{connections: map[string]store.LogicalConnections{
		"seed": threeCandidateConns(),
	}}
	e := reasoning.New(s, &stubLLM{response: "banana"}, 10)

	chain, err := e.GetChain(context.Background(), "seed", "forward", 1)
	if err != nil {
		t.Fatalf("GetChain() error = %v", err)
	}
	if len(chain.Steps) != 1 || chain.Steps[0].ToID != "cand_1" {
		t.Fatalf("GetChain() steps = %+v, want single step to cand_1", chain.Steps)
	}
}

func TestWarmUpCacheIsOneShot(t *testing.T) {
	s := &recordingStore{}
	callCount := 0
	wrapped := &countingRelationsStore{recordingStore: s, onCall: func() { callCount++ }}
	e := reasoning.New(wrapped, nil, 10)

	if _, err := e.WarmUpCache(context.Background(), "mem_x", 10); err != nil {
		t.Fatalf("WarmUpCache() error = %v", err)
	}
	if _, err := e.WarmUpCache(context.Background(), "mem_x", 10); err != nil {
		t.Fatalf("WarmUpCache() error = %v", err)
	}
	if callCount != 1 {
		t.Fatalf("getRecentRelations called %d times, want 1", callCount)
	}
}

type countingRelationsStore struct {
	*recordingStore
	onCall func()
}

func (s *countingRelationsStore) GetRecentRelations(ctx context.Context, limit int, memoryID string) ([]store.RecentRelation, error) {
	s.onCall()
	return nil, nil
}
