package search_test

import (
	"testing"

	"github.com/becomeliminal/cortex/search"
)

func TestRankAndFilterDedupKeepsHigherScore(t *testing.T) {
	results := []search.Result{
		{MemoryID: "mem_1", Combined: 0.55, Source: "vector"},
		{MemoryID: "mem_1", Combined: 0.80, Source: "graph"},
	}
	out := search.RankAndFilter(results, 0.3)
	if len(out) != 1 {
		t.Fatalf("RankAndFilter() returned %d results, want 1", len(out))
	}
	if out[0].Combined != 0.80 {
		t.Errorf("RankAndFilter() kept Combined=%v, want 0.80", out[0].Combined)
	}
}

func TestRankAndFilterDropsBelowThreshold(t *testing.T) {
	results := []search.Result{
		{MemoryID: "mem_1", Combined: 0.1},
		{MemoryID: "mem_2", Combined: 0.5},
	}
	out := search.RankAndFilter(results, 0.3)
	if len(out) != 1 || out[0].MemoryID != "mem_2" {
		t.Fatalf("RankAndFilter() = %+v, want only mem_2", out)
	}
}

func TestRankAndFilterStableOnTiesByFirstSeen(t *testing.T) {
	results := []search.Result{
		{MemoryID: "mem_first", Combined: 0.5},
		{MemoryID: "mem_second", Combined: 0.5},
	}
	out := search.RankAndFilter(results, 0.0)
	if len(out) != 2 || out[0].MemoryID != "mem_first" || out[1].MemoryID != "mem_second" {
		t.Fatalf("RankAndFilter() = %+v, want first-seen order preserved on ties", out)
	}
}

func TestRankAndFilterNeverDuplicatesMemoryID(t *testing.T) {
	results := []search.Result{
		{MemoryID: "mem_1", Combined: 0.4},
		{MemoryID: "mem_1", Combined: 0.6},
		{MemoryID: "mem_1", Combined: 0.2},
	}
	out := search.RankAndFilter(results, 0.0)
	seen := map[string]bool{}
	for _, r := range out {
		if seen[r.MemoryID] {
			t.Fatalf("duplicate memory id %s in rank/filter output", r.MemoryID)
		}
		seen[r.MemoryID] = true
	}
}
