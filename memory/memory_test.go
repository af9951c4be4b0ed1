package memory_test

import (
	"testing"

	"github.com/becomeliminal/cortex/memory"
)

func TestClampPercent(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-50, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{101, 100},
		{1000, 100},
	}
	for _, c := range cases {
		if got := memory.ClampPercent(c.in); got != c.want {
			t.Errorf("ClampPercent(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestReasoningTypeStringRoundTrip(t *testing.T) {
	for _, rt := range []memory.ReasoningType{memory.Implies, memory.Because, memory.Contradicts, memory.Supports} {
		label := rt.String()
		if got := memory.ParseReasoningType(label); got != rt {
			t.Errorf("ParseReasoningType(%q) = %v, want %v", label, got, rt)
		}
	}
}

func TestParseReasoningTypeUnknownDefaultsToImplies(t *testing.T) {
	for _, s := range []string{"", "nonsense", "similar_to"} {
		if got := memory.ParseReasoningType(s); got != memory.Implies {
			t.Errorf("ParseReasoningType(%q) = %v, want Implies", s, got)
		}
	}
}

func TestParseReasoningTypeLLMInferredUnknownDefaultsToSupports(t *testing.T) {
	for _, s := range []string{"", "nonsense"} {
		if got := memory.ParseReasoningTypeLLMInferred(s); got != memory.Supports {
			t.Errorf("ParseReasoningTypeLLMInferred(%q) = %v, want Supports", s, got)
		}
	}
	// Known labels still decode normally on the LLM-inferred path.
	if got := memory.ParseReasoningTypeLLMInferred("contradicts"); got != memory.Contradicts {
		t.Errorf("ParseReasoningTypeLLMInferred(contradicts) = %v, want Contradicts", got)
	}
}

func TestNewMemoryIDFormat(t *testing.T) {
	id := memory.NewMemoryID()
	if len(id) != len("mem_")+12 {
		t.Fatalf("NewMemoryID() = %q, want length %d", id, len("mem_")+12)
	}
	if id[:4] != "mem_" {
		t.Errorf("NewMemoryID() = %q, want mem_ prefix", id)
	}
}

func TestNewRelationIDUsesFirst8Chars(t *testing.T) {
	id := memory.NewRelationID("mem_abcdefghijkl", "mem_zyxwvutsrqpo")
	if want := "rel_mem_abcd_mem_zyxw"; id != want {
		t.Errorf("NewRelationID() = %q, want %q", id, want)
	}
}
