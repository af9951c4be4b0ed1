// Package mock is a deterministic embedder for testing, adapted from the
// SDK's original hash-based mock embedder.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder is a simple deterministic embedder for testing.
// It generates embeddings based on a text hash, not real semantics.
type Embedder struct {
	dimensions int
}

// New creates a new mock embedder with the given dimensionality.
func New(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &Embedder{dimensions: dimensions}
}

// Generate creates a deterministic embedding from text's hash.
func (m *Embedder) Generate(ctx context.Context, text string, normalize bool) ([]float64, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	embedding := make([]float64, m.dimensions)
	for i := 0; i < m.dimensions; i++ {
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float64(int64(seed)) / float64(math.MaxInt64)
	}

	if normalize {
		embedding = normalizeVec(embedding)
	}
	return embedding, nil
}

// Model returns the mock model name.
func (m *Embedder) Model() string { return "mock-hash-embedder" }

func normalizeVec(vec []float64) []float64 {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
