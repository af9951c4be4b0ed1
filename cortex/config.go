package cortex

import (
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/becomeliminal/cortex/ontology"
	"github.com/becomeliminal/cortex/search"
)

// Config wires every collaborator the client needs. It is a plain struct:
// environment parsing and CLI flag handling are explicitly out of scope and
// belong to the caller.
type Config struct {
	// StoreBaseURL, when set, selects the production JSON-over-HTTP store.
	// When empty, the client uses the in-process local store.
	StoreBaseURL string
	StoreTimeout time.Duration

	// Embedder: when EmbedderPrimaryURL is empty, a deterministic mock
	// embedder is used (suitable for tests and local development), whether
	// or not EmbedderFallbackURL is set.
	EmbedderPrimaryURL  string
	EmbedderFallbackURL string
	EmbeddingModel      string
	EmbedderTimeout     time.Duration
	MockEmbedderDims    int

	// LLM provider: when AnthropicAPIKey is empty, the client runs with no
	// LLM provider. The reasoning engine, decision engine, and extractor are
	// all fully functional without one (the LLM is a tie-breaker, not an
	// authority).
	AnthropicAPIKey    string
	AnthropicModel     anthropic.Model
	AnthropicMaxTokens int64

	ReasoningCacheCapacity int
	SearchEngine           search.EngineConfig
	OntologyRules          []ontology.KeywordRule
}

// DefaultConfig returns a Config wired for local development: local store,
// mock embedder, no LLM provider.
func DefaultConfig() Config {
	return Config{
		StoreTimeout:           10 * time.Second,
		EmbeddingModel:         "mock-embed-v1",
		EmbedderTimeout:        10 * time.Second,
		MockEmbedderDims:       256,
		AnthropicModel:         anthropic.Model("claude-sonnet-4-5"),
		AnthropicMaxTokens:     1024,
		ReasoningCacheCapacity: 500,
		SearchEngine:           search.DefaultEngineConfig(),
	}
}
