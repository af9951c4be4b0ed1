// Package embed declares the Embedder collaborator interface the pipeline
// consumes to turn text into vectors, plus default implementations.
package embed

import "context"

// Embedder converts text to a vector embedding.
type Embedder interface {
	// Generate converts text to an embedding vector, optionally L2-normalizing it.
	Generate(ctx context.Context, text string, normalize bool) ([]float64, error)
	// Model returns the embedding model's name.
	Model() string
}
