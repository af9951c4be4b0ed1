package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/becomeliminal/cortex/llm"
)

// LLMEngine is the default decision engine, consulting the configured
// llm.Provider. The pipeline trusts its verdict unconditionally — there is
// no secondary validation here (see design notes on decision engine trust).
type LLMEngine struct {
	Provider llm.Provider
}

// New creates an LLMEngine. provider may be nil, in which case every
// candidate with no similar memories decides Add, and any candidate whose
// content exactly matches (case-insensitively) a similar memory decides
// Noop — a conservative, LLM-free default.
func New(provider llm.Provider) *LLMEngine {
	return &LLMEngine{Provider: provider}
}

const decisionSystemPrompt = `You reconcile a new candidate memory against its near-duplicate neighbors. Respond with JSON only:
{"operation":"add|update|supersede|contradict|delete|noop","target_memory_id":"...","merged_content":"...","supersedes_memory_id":"...","contradicts_memory_id":"...","confidence":0.9}`

type decisionResponse struct {
	Operation            string  `json:"operation"`
	TargetMemoryID        string  `json:"target_memory_id"`
	MergedContent         string  `json:"merged_content"`
	SupersedesMemoryID    string  `json:"supersedes_memory_id"`
	ContradictsMemoryID   string  `json:"contradicts_memory_id"`
	Confidence            float64 `json:"confidence"`
}

func parseOperation(s string) Operation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "update":
		return Update
	case "supersede":
		return Supersede
	case "contradict":
		return Contradict
	case "delete":
		return Delete
	case "noop":
		return Noop
	default:
		return Add
	}
}

// Decide asks the LLM provider how to reconcile text against candidates. If
// no provider is configured, falls back to an exact-content-match Noop
// check and otherwise decides Add.
func (e *LLMEngine) Decide(ctx context.Context, text string, candidates []SimilarMemory, userID string) (Decision, error) {
	if e.Provider == nil {
		for _, c := range candidates {
			if strings.EqualFold(strings.TrimSpace(c.Content), strings.TrimSpace(text)) {
				return Decision{Operation: Noop, TargetMemoryID: c.MemoryID, Confidence: 1.0}, nil
			}
		}
		return Decision{Operation: Add, Confidence: 1.0}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "new candidate: %q\nnear-duplicates:\n", text)
	for _, c := range candidates {
		fmt.Fprintf(&sb, "- id=%s score=%.2f content=%q\n", c.MemoryID, c.Score, c.Content)
	}

	resp, _, err := e.Provider.Generate(ctx, decisionSystemPrompt, sb.String(), "json")
	if err != nil {
		return Decision{}, fmt.Errorf("decide: %w", err)
	}
	if resp == "" {
		return Decision{Operation: Add, Confidence: 0.5}, nil
	}

	var parsed decisionResponse
	if err := json.Unmarshal([]byte(resp), &parsed); err != nil {
		log.Printf("[DECISION] failed to parse decision response as JSON, defaulting to add: %v", err)
		return Decision{Operation: Add, Confidence: 0.5}, nil
	}

	return Decision{
		Operation:           parseOperation(parsed.Operation),
		TargetMemoryID:      parsed.TargetMemoryID,
		MergedContent:       parsed.MergedContent,
		SupersedesMemoryID:  parsed.SupersedesMemoryID,
		ContradictsMemoryID: parsed.ContradictsMemoryID,
		Confidence:          parsed.Confidence,
	}, nil
}
