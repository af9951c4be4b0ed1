// Package llm declares the LLM provider collaborator interface and ships
// default implementations: an Anthropic-backed provider for production and
// a deterministic mock for tests.
package llm

import "context"

// Provider is a language-model collaborator. The core uses it only as a
// tie-breaker and enrichment source, never as an authority (the pipeline
// must be fully functional with no provider configured).
type Provider interface {
	// Generate runs one completion given a system and user prompt. format,
	// when non-empty, is a hint such as "json" requesting structured output.
	Generate(ctx context.Context, systemPrompt, userPrompt, format string) (text string, metadata map[string]string, err error)
	ProviderName() string
	ModelName() string
}
