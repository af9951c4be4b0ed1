package search_test

import (
	"testing"

	"github.com/becomeliminal/cortex/search"
)

func TestEdgeWeightCaseInsensitiveAndTotal(t *testing.T) {
	cases := []struct {
		label string
		want  float64
	}{
		{"BECAUSE", 1.00},
		{"because", 1.00},
		{"Implies", 0.90},
		{"SIMILAR_TO", 0.75},
		{"memory_relation", 0.70},
		{"EXTRACTED_ENTITY", 0.60},
		{"Contradicts", 0.40},
		{"implies_in", 0.90 * 0.90},
		{"because_in", 1.00 * 0.85},
		{"contradicts_in", 0.40 * 0.80},
		{"memory_relation_in", 0.70 * 0.60},
		{"totally_unknown_label", 0.50},
		{"", 0.50},
	}
	for _, c := range cases {
		if got := search.EdgeWeight(c.label); got != c.want {
			t.Errorf("EdgeWeight(%q) = %v, want %v", c.label, got, c.want)
		}
	}
}
