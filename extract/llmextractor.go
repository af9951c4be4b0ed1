package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/becomeliminal/cortex/llm"
)

// LLMExtractor is the default Extractor, driven by a strict JSON-only
// prompt to the configured llm.Provider.
type LLMExtractor struct {
	Provider llm.Provider
}

// New creates an LLMExtractor. provider may be nil, in which case Extract
// always returns an empty Result (the write pipeline's zero-memory
// fallback then synthesizes a single fact memory).
func New(provider llm.Provider) *LLMExtractor {
	return &LLMExtractor{Provider: provider}
}

const extractSystemPrompt = `You decompose a user message into atomic memories, named entities, and logical relations between the memories. Respond with JSON only, no prose, matching:
{"memories":[{"text":"...","memory_type":"fact","certainty":80,"importance":50,"entities":["..."]}],"entities":[{"id":"...","name":"...","type":"...","attributes":{}}],"relations":[{"from_memory_content":"...","to_memory_content":"...","relation_type":"IMPLIES"}]}`

type extractResponse struct {
	Memories []struct {
		Text       string   `json:"text"`
		MemoryType string   `json:"memory_type"`
		Certainty  int      `json:"certainty"`
		Importance int      `json:"importance"`
		Entities   []string `json:"entities"`
	} `json:"memories"`
	Entities []struct {
		ID         string            `json:"id"`
		Name       string            `json:"name"`
		Type       string            `json:"type"`
		Attributes map[string]string `json:"attributes"`
	} `json:"entities"`
	Relations []struct {
		FromMemoryContent string `json:"from_memory_content"`
		ToMemoryContent   string `json:"to_memory_content"`
		RelationType      string `json:"relation_type"`
	} `json:"relations"`
}

// Extract asks the LLM to decompose message into memories/entities/relations.
func (e *LLMExtractor) Extract(ctx context.Context, message, userID string, entitiesEnabled, relationsEnabled bool) (Result, error) {
	if e.Provider == nil {
		return Result{}, nil
	}

	userPrompt := fmt.Sprintf("user_id=%s\nentities_enabled=%v\nrelations_enabled=%v\nmessage: %s", userID, entitiesEnabled, relationsEnabled, message)
	text, _, err := e.Provider.Generate(ctx, extractSystemPrompt, userPrompt, "json")
	if err != nil {
		return Result{}, fmt.Errorf("extract: %w", err)
	}
	if text == "" {
		return Result{}, nil
	}

	var parsed extractResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		log.Printf("[EXTRACT] failed to parse extractor response as JSON: %v", err)
		return Result{}, nil
	}

	out := Result{}
	for _, m := range parsed.Memories {
		out.Memories = append(out.Memories, ExtractedMemory{
			Text: m.Text, MemoryType: m.MemoryType, Certainty: m.Certainty,
			Importance: m.Importance, EntityIDs: m.Entities,
		})
	}
	if entitiesEnabled {
		for _, ent := range parsed.Entities {
			out.Entities = append(out.Entities, ExtractedEntity{
				ID: ent.ID, Name: ent.Name, Type: ent.Type, Attributes: ent.Attributes,
			})
		}
	}
	if relationsEnabled {
		for _, r := range parsed.Relations {
			out.Relations = append(out.Relations, ExtractedRelation{
				FromMemoryContent: r.FromMemoryContent, ToMemoryContent: r.ToMemoryContent, RelationType: r.RelationType,
			})
		}
	}
	return out, nil
}
