// Package cortex is the top-level client façade: it wires the store,
// embedder, LLM provider, and every collaborator into a working write
// pipeline and search engine.
package cortex

import (
	"context"

	"github.com/becomeliminal/cortex/chunking"
	"github.com/becomeliminal/cortex/decision"
	"github.com/becomeliminal/cortex/embed"
	"github.com/becomeliminal/cortex/embed/httpembedder"
	"github.com/becomeliminal/cortex/embed/mock"
	"github.com/becomeliminal/cortex/entity"
	"github.com/becomeliminal/cortex/extract"
	"github.com/becomeliminal/cortex/llm"
	"github.com/becomeliminal/cortex/memory"
	"github.com/becomeliminal/cortex/ontology"
	"github.com/becomeliminal/cortex/pipeline"
	"github.com/becomeliminal/cortex/reasoning"
	"github.com/becomeliminal/cortex/search"
	"github.com/becomeliminal/cortex/store"
	"github.com/becomeliminal/cortex/store/httpstore"
	"github.com/becomeliminal/cortex/store/localstore"
)

// Client is the substrate's public entry point: it exposes the write
// pipeline's and search engine's operations over one wired instance.
type Client struct {
	Store     store.Store
	Embedder  embed.Embedder
	Provider  llm.Provider
	Reasoning *reasoning.Engine
	Search    *search.Engine
	Pipeline  *pipeline.Pipeline
}

// New wires a Client from cfg. Callers own the returned Client's lifetime
// and must call Close when done.
func New(cfg Config) (*Client, error) {
	s, err := newStore(cfg)
	if err != nil {
		return nil, memory.NewError(memory.KindConfig, "new_client", err)
	}

	embedder := newEmbedder(cfg)

	var provider llm.Provider
	if cfg.AnthropicAPIKey != "" {
		provider = llm.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicMaxTokens)
	}

	extractor := extract.New(provider)
	decisionEngine := decision.New(provider)
	chunker := chunking.New()

	entityMgr, err := entity.New()
	if err != nil {
		return nil, memory.NewError(memory.KindConfig, "new_client", err)
	}

	ontologyMgr := ontology.New(cfg.OntologyRules)
	if err := ontologyMgr.Load(context.Background()); err != nil {
		return nil, memory.NewError(memory.KindOntology, "new_client", err)
	}

	reasoningEngine := reasoning.New(s, provider, cfg.ReasoningCacheCapacity)
	searchEngine := search.NewEngine(s, cfg.SearchEngine)

	pl := pipeline.New(s, embedder, provider, extractor, decisionEngine, chunker, entityMgr, ontologyMgr, reasoningEngine, searchEngine)

	return &Client{
		Store: s, Embedder: embedder, Provider: provider,
		Reasoning: reasoningEngine, Search: searchEngine, Pipeline: pl,
	}, nil
}

func newStore(cfg Config) (store.Store, error) {
	if cfg.StoreBaseURL == "" {
		return localstore.New()
	}
	return httpstore.New(cfg.StoreBaseURL, cfg.StoreTimeout), nil
}

func newEmbedder(cfg Config) embed.Embedder {
	if cfg.EmbedderPrimaryURL == "" {
		dims := cfg.MockEmbedderDims
		if dims <= 0 {
			dims = 256
		}
		return mock.New(dims)
	}
	return httpembedder.New(cfg.EmbedderPrimaryURL, cfg.EmbedderFallbackURL, cfg.EmbeddingModel, cfg.EmbedderTimeout)
}

// AddMemory ingests message for userID, running the full write pipeline.
func (c *Client) AddMemory(ctx context.Context, message, userID string, metadata map[string]string) (pipeline.AddMemoryResult, error) {
	return c.Pipeline.AddMemory(ctx, message, userID, metadata)
}

// UpdateMemory re-embeds and replaces the content of an existing memory.
func (c *Client) UpdateMemory(ctx context.Context, id, newContent, userID string) error {
	return c.Pipeline.UpdateMemory(ctx, id, newContent, userID)
}

// DeleteMemory removes a memory by id.
func (c *Client) DeleteMemory(ctx context.Context, id string) error {
	return c.Pipeline.DeleteMemory(ctx, id)
}

// GetMemoryGraph returns a BFS-bounded reasoning-graph view around a memory
// (or the user's recent memories when memoryID is nil).
func (c *Client) GetMemoryGraph(ctx context.Context, userID string, memoryID *string, depth int) (pipeline.Graph, error) {
	return c.Pipeline.GetMemoryGraph(ctx, userID, memoryID, depth)
}

// SearchReasoningChain seeds with a contextual search and walks a reasoning
// chain from each seed.
func (c *Client) SearchReasoningChain(ctx context.Context, query, userID, chainType string, limit, maxDepth int) (pipeline.ReasoningChainResult, error) {
	return c.Pipeline.SearchReasoningChain(ctx, query, userID, chainType, limit, maxDepth)
}

// SearchByConcept filters a contextual search by ontology concept and
// optional tags.
func (c *Client) SearchByConcept(ctx context.Context, query, userID, conceptType, tags string, limit int) ([]search.Result, error) {
	return c.Pipeline.SearchByConcept(ctx, query, userID, conceptType, tags, limit)
}

// SmartSearch runs the three-phase mode-preset traversal directly.
func (c *Client) SmartSearch(ctx context.Context, query, userID string, mode search.Mode, limit int) ([]search.Result, search.Stats, error) {
	vec, err := c.Embedder.Generate(ctx, query, true)
	if err != nil {
		return nil, search.Stats{}, memory.NewError(memory.KindEmbedding, "smart_search", err)
	}
	return c.Search.SmartSearch(ctx, query, vec, userID, mode, limit)
}

// Close releases the underlying store's resources.
func (c *Client) Close() error {
	return c.Store.Close()
}
