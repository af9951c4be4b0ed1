package search

import "strings"

// edgeWeights is the static, case-insensitive map from relation label to
// traversal weight used by the graph expander.
var edgeWeights = map[string]float64{
	"BECAUSE":             1.00,
	"IMPLIES":             0.90,
	"SIMILAR_TO":          0.75,
	"MEMORY_RELATION":     0.70,
	"EXTRACTED_ENTITY":    0.60,
	"CONTRADICTS":         0.40,
	"IMPLIES_IN":          0.90 * 0.90,
	"BECAUSE_IN":          1.00 * 0.85,
	"CONTRADICTS_IN":      0.40 * 0.80,
	"MEMORY_RELATION_IN":  0.70 * 0.60,
}

const defaultEdgeWeight = 0.5

// EdgeWeight looks up label's traversal weight, case-insensitively. Unknown
// labels fall through to the default weight. The lookup is total: it never
// rejects a label.
func EdgeWeight(label string) float64 {
	if w, ok := edgeWeights[strings.ToUpper(strings.TrimSpace(label))]; ok {
		return w
	}
	return defaultEdgeWeight
}
