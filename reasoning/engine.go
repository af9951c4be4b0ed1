// Package reasoning implements the reasoning engine: persistence of typed
// relations between memories, routed by type to distinct store operations,
// and a chain walker that assembles directed paths over IMPLIES/BECAUSE/
// CONTRADICTS/SUPPORTS edges with an LLM as an optional tie-breaker.
package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/becomeliminal/cortex/llm"
	"github.com/becomeliminal/cortex/memory"
	"github.com/becomeliminal/cortex/store"
)

// Engine is the default reasoning engine.
type Engine struct {
	store    store.Store
	provider llm.Provider // may be nil: LLM is a tie-breaker, not an authority

	cache    *relationLRU
	warmedUp atomic.Bool
}

// New creates a reasoning engine. provider may be nil.
func New(s store.Store, provider llm.Provider, cacheCapacity int) *Engine {
	return &Engine{store: s, provider: provider, cache: newRelationLRU(cacheCapacity)}
}

// AddRelation clamps strength, routes persistence by type, and on success
// caches the relation keyed by "rel_<from8>_<to8>".
func (e *Engine) AddRelation(ctx context.Context, from, to string, rtype memory.ReasoningType, strength int, reasoningID string) (*memory.ReasoningRelation, error) {
	strength = memory.ClampPercent(strength)
	now := time.Now()

	rel := memory.ReasoningRelation{
		ID: memory.NewRelationID(from, to), FromID: from, ToID: to,
		Type: rtype, Strength: strength, ReasoningID: reasoningID, CreatedAt: now,
	}

	var err error
	switch rtype {
	case memory.Implies:
		err = e.store.AddMemoryImplication(ctx, from, to, strength, now)
	case memory.Because:
		err = e.store.AddMemoryCausation(ctx, from, to, strength, now)
	case memory.Contradicts:
		rel.Resolved = false
		rel.ResolutionStrategy = "pending"
		err = e.store.AddMemoryContradiction(ctx, from, to, strength, now, false, "pending")
	default: // Supports
		rel.CreatedBy = "reasoning_engine"
		err = e.store.AddReasoningRelation(ctx, rel.ID, from, to, strength, rel.Explanation, rel.CreatedBy, now)
	}
	if err != nil {
		return nil, memory.NewError(memory.KindReasoning, "add_relation", err)
	}

	e.cache.put(rel.ID, rel)
	return &rel, nil
}

// ChainStep is one edge traversed by the chain walker.
type ChainStep struct {
	FromID string
	ToID   string
	Type   memory.ReasoningType
}

// Chain is the result of GetChain.
type Chain struct {
	SeedID        string
	Steps         []ChainStep
	ReasoningTrail string
}

func arrow(t memory.ReasoningType) string {
	switch t {
	case memory.Implies:
		return "→" // →
	case memory.Because:
		return "←" // ←
	case memory.Contradicts:
		return "⊗" // ⊗
	default:
		return "↔" // ↔ (Supports)
	}
}

type chainCandidate struct {
	MemoryID string
	Type     memory.ReasoningType
}

func candidatesForMode(mode string, conns store.LogicalConnections) []chainCandidate {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	var out []chainCandidate
	switch normalized {
	case "causal":
		for _, n := range conns.BecauseIn {
			out = append(out, chainCandidate{n.MemoryID, memory.Because})
		}
	case "forward":
		for _, n := range conns.ImpliesOut {
			out = append(out, chainCandidate{n.MemoryID, memory.Implies})
		}
	default: // both, deep, or any unrecognized mode falls through to "both"
		for _, n := range conns.ImpliesOut {
			out = append(out, chainCandidate{n.MemoryID, memory.Implies})
		}
		for _, n := range conns.BecauseIn {
			out = append(out, chainCandidate{n.MemoryID, memory.Because})
		}
		for _, n := range conns.ContradictsOut {
			out = append(out, chainCandidate{n.MemoryID, memory.Contradicts})
		}
	}
	return out
}

const chainLLMSystemPrompt = `You are a reasoning-chain assistant. Given the current memory and a numbered list of candidate next memories with their edge labels, reply with only the 1-based index of the best candidate to follow.`

// GetChain walks the graph from memoryID, building a linear chain. chainType
// selects which edge directions to follow per step; unrecognized values
// behave as "both". When multiple candidates remain at a step and an LLM is
// configured, it breaks the tie; otherwise the first candidate is taken.
func (e *Engine) GetChain(ctx context.Context, memoryID, chainType string, maxDepth int) (Chain, error) {
	chain := Chain{SeedID: memoryID}
	visited := map[string]bool{memoryID: true}
	current := memoryID

	var trail strings.Builder

	for depth := 0; depth < maxDepth; depth++ {
		conns, err := e.store.GetMemoryLogicalConnections(ctx, current)
		if err != nil {
			return chain, memory.NewError(memory.KindReasoning, "get_chain", err)
		}

		candidates := candidatesForMode(chainType, conns)
		var fresh []chainCandidate
		for _, c := range candidates {
			if !visited[c.MemoryID] {
				fresh = append(fresh, c)
			}
		}
		if len(fresh) == 0 {
			break
		}

		var chosen chainCandidate
		switch {
		case len(fresh) == 1:
			chosen = fresh[0]
		case e.provider != nil:
			chosen = fresh[e.pickByLLM(ctx, current, fresh)]
		default:
			chosen = fresh[0]
		}

		chain.Steps = append(chain.Steps, ChainStep{FromID: current, ToID: chosen.MemoryID, Type: chosen.Type})
		if trail.Len() > 0 {
			trail.WriteString(" ")
		}
		trail.WriteString(fmt.Sprintf("[%s] %s [%s]", firstN(current, 8), arrow(chosen.Type), firstN(chosen.MemoryID, 8)))

		visited[chosen.MemoryID] = true
		current = chosen.MemoryID
	}

	chain.ReasoningTrail = trail.String()
	return chain, nil
}

// pickByLLM asks the provider for a 1-based index into fresh, parsing the
// first integer in the response, clamping into range, defaulting to index 0
// (candidate 1) on any parse error.
func (e *Engine) pickByLLM(ctx context.Context, currentID string, fresh []chainCandidate) int {
	var sb strings.Builder
	fmt.Fprintf(&sb, "current: %s\ncandidates:\n", firstN(currentID, 8))
	for i, c := range fresh {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, firstN(c.MemoryID, 8), c.Type)
	}

	resp, _, err := e.provider.Generate(ctx, chainLLMSystemPrompt, sb.String(), "")
	if err != nil {
		return 0
	}

	idx := firstInt(resp)
	if idx < 1 {
		return 0
	}
	if idx > len(fresh) {
		idx = len(fresh)
	}
	return idx - 1
}

func firstInt(s string) int {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return n
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// InferredRelation is one relation proposed by InferRelations.
type InferredRelation struct {
	FromID   string
	ToID     string
	Type     memory.ReasoningType
	Strength int
}

const inferSystemPrompt = `Propose logical relations between memories given context. Respond with a strict JSON array only, no prose: [{"from_id":"...","to_id":"...","type":"IMPLIES|BECAUSE|CONTRADICTS|SUPPORTS","strength":80}]`

// InferRelations asks the LLM to propose relations for memoryID given
// context. Returns an empty slice (not an error) if no LLM is configured or
// the response fails to parse.
func (e *Engine) InferRelations(ctx context.Context, memoryID string, context string) ([]InferredRelation, error) {
	if e.provider == nil {
		return nil, nil
	}

	userPrompt := fmt.Sprintf("memory_id: %s\ncontext: %s", memoryID, context)
	resp, _, err := e.provider.Generate(ctx, inferSystemPrompt, userPrompt, "json")
	if err != nil {
		return nil, memory.NewError(memory.KindReasoning, "infer_relations", err)
	}
	if resp == "" {
		return nil, nil
	}

	var raw []struct {
		FromID   string `json:"from_id"`
		ToID     string `json:"to_id"`
		Type     string `json:"type"`
		Strength int    `json:"strength"`
	}
	if err := json.Unmarshal([]byte(resp), &raw); err != nil {
		log.Printf("[REASONING] infer_relations: failed to parse LLM response as JSON: %v", err)
		return nil, nil
	}

	out := make([]InferredRelation, 0, len(raw))
	for _, r := range raw {
		out = append(out, InferredRelation{
			FromID: r.FromID, ToID: r.ToID,
			Type:     memory.ParseReasoningTypeLLMInferred(r.Type),
			Strength: memory.ClampPercent(r.Strength),
		})
	}
	return out, nil
}

// WarmUpCache loads recent relations into the cache once. Subsequent calls
// are no-ops. On store error, returns 0 without flipping the warmed-up
// flag, so a later retry can still succeed.
func (e *Engine) WarmUpCache(ctx context.Context, memoryID string, limit int) (int, error) {
	if e.warmedUp.Load() {
		return 0, nil
	}

	relations, err := e.store.GetRecentRelations(ctx, limit, memoryID)
	if err != nil {
		return 0, nil
	}

	for _, r := range relations {
		e.cache.put(r.ID, memory.ReasoningRelation{
			ID: r.ID, FromID: r.FromID, ToID: r.ToID,
			Type: memory.ParseReasoningType(r.Type), Strength: memory.ClampPercent(r.Strength),
		})
	}

	e.warmedUp.Store(true)
	return len(relations), nil
}

// CacheLen reports how many relations are currently cached (test helper).
func (e *Engine) CacheLen() int { return e.cache.len() }
