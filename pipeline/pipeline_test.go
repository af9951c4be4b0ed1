package pipeline_test

import (
	"context"
	"testing"

	"github.com/becomeliminal/cortex/chunking"
	"github.com/becomeliminal/cortex/decision"
	"github.com/becomeliminal/cortex/embed/mock"
	"github.com/becomeliminal/cortex/entity"
	"github.com/becomeliminal/cortex/extract"
	"github.com/becomeliminal/cortex/ontology"
	"github.com/becomeliminal/cortex/pipeline"
	"github.com/becomeliminal/cortex/reasoning"
	"github.com/becomeliminal/cortex/search"
	"github.com/becomeliminal/cortex/store/localstore"
)

// passthroughExtractor turns the raw message into a single extracted memory
// verbatim, with no entities or relations — enough to drive the write
// pipeline's reconciliation logic without an LLM.
type passthroughExtractor struct{}

func (passthroughExtractor) Extract(ctx context.Context, message, userID string, entitiesEnabled, relationsEnabled bool) (extract.Result, error) {
	return extract.Result{
		Memories: []extract.ExtractedMemory{{Text: message, MemoryType: "fact", Certainty: 70, Importance: 60}},
	}, nil
}

// supersedeOnMatch decides Supersede against the first candidate whenever
// any near-duplicate is found, otherwise Add — enough to drive scenario 2
// deterministically without an LLM.
type supersedeOnMatch struct{}

func (supersedeOnMatch) Decide(ctx context.Context, text string, candidates []decision.SimilarMemory, userID string) (decision.Decision, error) {
	if len(candidates) == 0 {
		return decision.Decision{Operation: decision.Add, Confidence: 1.0}, nil
	}
	return decision.Decision{Operation: decision.Supersede, SupersedesMemoryID: candidates[0].MemoryID, Confidence: 0.9}, nil
}

func newTestPipeline(t *testing.T, decisionEngine decision.Engine) *pipeline.Pipeline {
	t.Helper()
	s, err := localstore.New()
	if err != nil {
		t.Fatalf("localstore.New() error = %v", err)
	}
	entityMgr, err := entity.New()
	if err != nil {
		t.Fatalf("entity.New() error = %v", err)
	}
	embedder := mock.New(32)
	reasoningEngine := reasoning.New(s, nil, 50)
	searchEngine := search.NewEngine(s, search.DefaultEngineConfig())

	return pipeline.New(s, embedder, nil, passthroughExtractor{}, decisionEngine,
		chunking.New(), entityMgr, ontology.New(nil), reasoningEngine, searchEngine)
}

// TestDuplicateSuppression is spec concrete scenario 1.
func TestDuplicateSuppression(t *testing.T) {
	p := newTestPipeline(t, decision.New(nil))
	ctx := context.Background()

	first, err := p.AddMemory(ctx, "I live in Paris", "user_1", nil)
	if err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}
	if len(first.Added) != 1 {
		t.Fatalf("first call: added = %v, want exactly one memory", first.Added)
	}

	second, err := p.AddMemory(ctx, "I live in Paris", "user_1", nil)
	if err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}
	if len(second.Added) != 0 || len(second.Updated) != 0 || second.Skipped != 1 {
		t.Fatalf("second call: added=%v updated=%v skipped=%d, want added=[] updated=[] skipped=1",
			second.Added, second.Updated, second.Skipped)
	}
}

// TestSupersedeCreatesSupportsEdge is spec concrete scenario 2.
func TestSupersedeCreatesSupportsEdge(t *testing.T) {
	p := newTestPipeline(t, supersedeOnMatch{})
	ctx := context.Background()

	pre, err := p.AddMemory(ctx, "I work at Acme", "user_1", nil)
	if err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}
	if len(pre.Added) != 1 {
		t.Fatalf("pre-store: added = %v, want exactly one memory", pre.Added)
	}
	acmeID := pre.Added[0]

	result, err := p.AddMemory(ctx, "I now work at Globex", "user_1", nil)
	if err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}
	if len(result.Added) != 1 {
		t.Fatalf("supersede call: added = %v, want exactly one new memory", result.Added)
	}
	if result.ReasoningRelationsCreated != 1 {
		t.Fatalf("supersede call: reasoning relations created = %d, want 1", result.ReasoningRelationsCreated)
	}

	newID := result.Added[0]
	conns, err := p.Store.GetMemoryLogicalConnections(ctx, newID)
	if err != nil {
		t.Fatalf("GetMemoryLogicalConnections() error = %v", err)
	}
	found := false
	for _, n := range conns.RelationOut {
		if n.MemoryID == acmeID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a SUPPORTS (relation_out) edge %s->%s, got %+v", newID, acmeID, conns.RelationOut)
	}
}
