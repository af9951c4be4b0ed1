// Package extract implements the extractor collaborator: LLM-driven
// decomposition of a raw utterance into candidate memories, entities, and
// cross-memory relations.
package extract

import "context"

// ExtractedMemory is one atomic fact pulled out of the input message.
type ExtractedMemory struct {
	Text       string
	MemoryType string
	Certainty  int // [0,100]
	Importance int // [0,100]
	EntityIDs  []string
}

// ExtractedEntity is a named thing mentioned in the message.
type ExtractedEntity struct {
	ID         string
	Name       string
	Type       string
	Attributes map[string]string
}

// ExtractedRelation links two (not-yet-persisted) memories by their raw
// content, resolved to ids later by the write pipeline.
type ExtractedRelation struct {
	FromMemoryContent string
	ToMemoryContent   string
	RelationType      string
}

// Result is the full output of one Extract call.
type Result struct {
	Memories  []ExtractedMemory
	Entities  []ExtractedEntity
	Relations []ExtractedRelation
}

// Extractor is the extractor collaborator interface.
type Extractor interface {
	Extract(ctx context.Context, message, userID string, entitiesEnabled, relationsEnabled bool) (Result, error)
}
