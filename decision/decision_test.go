package decision_test

import (
	"context"
	"testing"

	"github.com/becomeliminal/cortex/decision"
)

// TestNoProviderExactMatchIsNoop is spec concrete scenario 1: a pre-stored
// exact-content duplicate must decide Noop even with no LLM configured.
func TestNoProviderExactMatchIsNoop(t *testing.T) {
	e := decision.New(nil)
	candidates := []decision.SimilarMemory{
		{MemoryID: "mem_paris", Content: "I live in Paris", Score: 0.95},
	}

	d, err := e.Decide(context.Background(), "I live in Paris", candidates, "user_1")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if d.Operation != decision.Noop {
		t.Fatalf("Decide() = %v, want Noop", d.Operation)
	}
}

func TestNoProviderNoMatchIsAdd(t *testing.T) {
	e := decision.New(nil)
	d, err := e.Decide(context.Background(), "I love hiking", nil, "user_1")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if d.Operation != decision.Add {
		t.Fatalf("Decide() = %v, want Add", d.Operation)
	}
}

func TestOperationStringRoundTrip(t *testing.T) {
	ops := []decision.Operation{decision.Add, decision.Update, decision.Supersede, decision.Contradict, decision.Delete, decision.Noop}
	want := []string{"add", "update", "supersede", "contradict", "delete", "noop"}
	for i, op := range ops {
		if got := op.String(); got != want[i] {
			t.Errorf("Operation(%d).String() = %q, want %q", i, got, want[i])
		}
	}
}
