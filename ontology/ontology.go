// Package ontology implements the ontology manager collaborator: a
// read-mostly, once-loaded snapshot of concept keyword rules used to map a
// memory's text to ontology concepts with a confidence in [0,1].
package ontology

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/becomeliminal/cortex/memory"
)

// KeywordRule maps any occurrence of Keyword in a memory's text to Concept
// with the given Confidence. MemoryType, when non-empty, additionally
// requires the memory's type tag to match.
type KeywordRule struct {
	Keyword    string
	MemoryType string
	Concept    memory.Concept
	Confidence float64
}

// ConceptMatch is one mapping result from MapMemoryToConcepts.
type ConceptMatch struct {
	Concept    memory.Concept
	Confidence float64
}

// Manager is the default ontology manager: a read-mostly snapshot of the
// rules supplied to New. Load does not replace or reload the rules.
type Manager struct {
	mu     sync.RWMutex
	rules  []KeywordRule
	loaded atomic.Bool
}

// New creates an ontology manager. A nil rules slice uses a small built-in
// default taxonomy.
func New(rules []KeywordRule) *Manager {
	if rules == nil {
		rules = defaultRules()
	}
	return &Manager{rules: rules}
}

func defaultRules() []KeywordRule {
	return []KeywordRule{
		{Keyword: "running", Concept: memory.Concept{ID: "concept_hobby", Name: "Hobby"}, Confidence: 0.8},
		{Keyword: "hiking", Concept: memory.Concept{ID: "concept_hobby", Name: "Hobby"}, Confidence: 0.75},
		{Keyword: "painting", Concept: memory.Concept{ID: "concept_hobby", Name: "Hobby"}, Confidence: 0.75},
		{Keyword: "live in", Concept: memory.Concept{ID: "concept_location", Name: "Location"}, Confidence: 0.85},
		{Keyword: "work at", Concept: memory.Concept{ID: "concept_occupation", Name: "Occupation"}, Confidence: 0.85},
		{Keyword: "work as", Concept: memory.Concept{ID: "concept_occupation", Name: "Occupation"}, Confidence: 0.8},
	}
}

// Load flips the loaded flag under a brief write lock. It does not read or
// swap in a new rule set: the rules stay those given to New. Safe to call
// more than once; callers should prefer IsLoaded to avoid redundant loads.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded.Store(true)
	return nil
}

// IsLoaded reports whether Load has completed at least once.
func (m *Manager) IsLoaded() bool { return m.loaded.Load() }

// MapMemoryToConcepts matches text (and optionally typ) against the loaded
// keyword rules, returning every match.
func (m *Manager) MapMemoryToConcepts(text, typ string) []ConceptMatch {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lower := strings.ToLower(text)
	var out []ConceptMatch
	for _, r := range m.rules {
		if r.MemoryType != "" && !strings.EqualFold(r.MemoryType, typ) {
			continue
		}
		if strings.Contains(lower, strings.ToLower(r.Keyword)) {
			out = append(out, ConceptMatch{Concept: r.Concept, Confidence: r.Confidence})
		}
	}
	return out
}
