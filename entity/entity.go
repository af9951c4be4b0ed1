// Package entity implements the entity manager collaborator: it
// deduplicates entities by (name, type) and links them to memories with
// typed, confidence-weighted edges. The store has no entity-specific
// operations (per the external interface table), so entities live entirely
// in-process here, memoized through a ristretto cache to avoid rescanning
// the dedup map on repeated lookups.
package entity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"

	"github.com/becomeliminal/cortex/memory"
)

// Manager is the default entity manager.
type Manager struct {
	mu    sync.Mutex
	byKey map[string]*memory.Entity
	links []memory.EntityLink
	cache *ristretto.Cache
}

// New creates an entity manager with its memoization cache sized for
// typical per-conversation entity volumes.
func New() (*Manager, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create entity cache: %w", err)
	}
	return &Manager{byKey: make(map[string]*memory.Entity), cache: cache}, nil
}

func dedupeKey(name, typ string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(typ))
}

// GetOrCreateEntity returns the existing entity for (name, type), or
// creates and registers a new one.
func (m *Manager) GetOrCreateEntity(ctx context.Context, name, typ string, attrs map[string]string) (*memory.Entity, error) {
	key := dedupeKey(name, typ)

	if v, ok := m.cache.Get(key); ok {
		if e, ok := v.(*memory.Entity); ok && e != nil {
			return e, nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.byKey[key]; ok {
		m.cache.Set(key, e, 1)
		return e, nil
	}

	e := &memory.Entity{
		ID:         "ent_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12],
		Name:       name,
		Type:       typ,
		Attributes: attrs,
	}
	m.byKey[key] = e
	m.cache.Set(key, e, 1)
	return e, nil
}

// LinkToMemory records a typed edge from an entity to a memory.
func (m *Manager) LinkToMemory(ctx context.Context, entityID, memoryID, edgeType string, confidence, weight int, sentiment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, memory.EntityLink{
		EntityID:   entityID,
		MemoryID:   memoryID,
		EdgeType:   edgeType,
		Confidence: memory.ClampPercent(confidence),
		Weight:     memory.ClampPercent(weight),
		Sentiment:  sentiment,
	})
	return nil
}

// Links returns all links recorded so far (test/inspection helper).
func (m *Manager) Links() []memory.EntityLink {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]memory.EntityLink, len(m.links))
	copy(out, m.links)
	return out
}
