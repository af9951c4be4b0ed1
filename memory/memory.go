// Package memory defines the core data model for the cortex substrate:
// atomic memories, their embeddings, entities, ontology concepts, reasoning
// relations between memories, and content chunks. Types here are pure data;
// orchestration lives in the pipeline package, persistence in the store
// package.
package memory

import (
	"strings"
	"time"
)

// Memory is a single atomic fact distilled from user input.
type Memory struct {
	ID         string // external id, e.g. "mem_1a2b3c4d5e6f"
	InternalID string // store-internal id, assigned on insert
	OwnerID    string
	Content    string
	Type       string // e.g. "fact"
	Certainty  int    // clamped [0,100]
	Importance int    // clamped [0,100]
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Source     string
	Metadata   map[string]string
	Tags       []string
}

// Embedding is the vector representation of a single memory under a named model.
type Embedding struct {
	InternalID string
	Model      string
	Vector     []float64
}

// Entity is a named thing deduplicated by (Name, Type) across memories.
type Entity struct {
	ID         string
	Name       string
	Type       string
	Attributes map[string]string
}

// EntityLink is a typed, confidence-weighted edge from an entity to a memory.
type EntityLink struct {
	EntityID   string
	MemoryID   string
	EdgeType   string // default "EXTRACTED_ENTITY"
	Confidence int    // clamped [0,100]
	Weight     int    // clamped [0,100]
	Sentiment  string
}

// Concept is an ontology node a memory may be tagged an instance of.
type Concept struct {
	ID   string
	Name string
}

// ConceptLink records that a memory is INSTANCE_OF a concept with some confidence.
type ConceptLink struct {
	MemoryID   string
	ConceptID  string
	Confidence int // clamped [0,100]
}

// ReasoningType enumerates the four logical relation kinds a memory graph
// edge may carry.
type ReasoningType int

const (
	Implies ReasoningType = iota
	Because
	Contradicts
	Supports
)

// String returns the uppercase label for t (the "edge_name" projection).
func (t ReasoningType) String() string {
	switch t {
	case Implies:
		return "IMPLIES"
	case Because:
		return "BECAUSE"
	case Contradicts:
		return "CONTRADICTS"
	case Supports:
		return "SUPPORTS"
	default:
		return "IMPLIES"
	}
}

// ParseReasoningType decodes a label on the write path. Any string that does
// not match a known label conservatively decodes to Implies; implementers
// must not reject unknown labels.
func ParseReasoningType(s string) ReasoningType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IMPLIES":
		return Implies
	case "BECAUSE":
		return Because
	case "CONTRADICTS":
		return Contradicts
	case "SUPPORTS":
		return Supports
	default:
		return Implies
	}
}

// ParseReasoningTypeLLMInferred decodes a label produced by the LLM-driven
// infer_relations path, where unknown types default to Supports instead of
// Implies.
func ParseReasoningTypeLLMInferred(s string) ReasoningType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IMPLIES":
		return Implies
	case "BECAUSE":
		return Because
	case "CONTRADICTS":
		return Contradicts
	default:
		return Supports
	}
}

// ReasoningRelation is a directed, typed edge between two memories.
type ReasoningRelation struct {
	ID          string // "rel_<from8>_<to8>"
	FromID      string
	ToID        string
	Type        ReasoningType
	Strength    int // clamped [0,100]
	ReasoningID string
	CreatedAt   time.Time
	CreatedBy   string
	Explanation string
	// Resolved/ResolutionStrategy are only meaningful for Contradicts edges.
	Resolved           bool
	ResolutionStrategy string
}

// Chunk is a sub-division of a long memory's content.
type Chunk struct {
	ID       string
	MemoryID string
	Index    int
	Content  string
}

// ClampPercent clamps v to [0,100]. Every certainty/importance/confidence/
// strength value crosses this function at its write boundary.
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
