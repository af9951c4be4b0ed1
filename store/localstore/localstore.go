// Package localstore is the SDK-local, in-process implementation of the
// store.Store interface. It backs vector similarity with chromem-go, the
// same embedded vector database used elsewhere in the SDK, and keeps the
// graph of reasoning edges, concept links, and user ownership in
// plain in-memory maps guarded by a mutex, since chromem-go itself has no
// graph concept.
package localstore

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/becomeliminal/cortex/store"
)

type edgeBuckets struct {
	out map[string][]store.Neighbor
	in  map[string][]store.Neighbor
}

func newEdgeBuckets() edgeBuckets {
	return edgeBuckets{out: make(map[string][]store.Neighbor), in: make(map[string][]store.Neighbor)}
}

// LocalStore is the in-process reference Store implementation.
type LocalStore struct {
	mu sync.RWMutex

	db  *chromem.DB
	all *chromem.Collection // every memory, for smartVectorSearchWithChunks

	memories   map[string]*store.MemoryRecord // keyed by internal id
	externalID map[string]string              // external id -> internal id

	implies     edgeBuckets
	because     edgeBuckets
	contradicts edgeBuckets
	relation    edgeBuckets

	concepts map[string]store.ConceptLinks // memoryID -> links
	userMems map[string][]string           // userID -> memory external ids

	recent []store.RecentRelation
}

// New creates an empty LocalStore.
func New() (*LocalStore, error) {
	db := chromem.NewDB()
	col, err := db.CreateCollection("memories", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &LocalStore{
		db:          db,
		all:         col,
		memories:    make(map[string]*store.MemoryRecord),
		externalID:  make(map[string]string),
		implies:     newEdgeBuckets(),
		because:     newEdgeBuckets(),
		contradicts: newEdgeBuckets(),
		relation:    newEdgeBuckets(),
		concepts:    make(map[string]store.ConceptLinks),
		userMems:    make(map[string][]string),
	}, nil
}

// VectorSearch performs a lexical token-overlap approximation, since the
// local reference store has no embedding model of its own (unlike
// smartVectorSearchWithChunks, which receives an already-embedded query
// vector from the core's Embedder collaborator).
func (s *LocalStore) VectorSearch(ctx context.Context, in store.VectorSearchInput) ([]store.MemoryHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queryTokens := tokenize(in.Query)
	var hits []store.MemoryHit
	for _, m := range s.memories {
		if in.UserID != "" && m.OwnerID != in.UserID {
			continue
		}
		score := overlapScore(queryTokens, tokenize(m.Content))
		if score < in.MinScore {
			continue
		}
		hits = append(hits, store.MemoryHit{
			MemoryID:        m.MemoryID,
			Content:         m.Content,
			SimilarityScore: score,
			CreatedAt:       m.CreatedAt,
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].SimilarityScore > hits[j].SimilarityScore })
	if in.Limit > 0 && len(hits) > in.Limit {
		hits = hits[:in.Limit]
	}
	log.Printf("[LOCALSTORE] vectorSearch user=%s query=%q -> %d hits", in.UserID, in.Query, len(hits))
	return hits, nil
}

func tokenize(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[strings.Trim(w, ".,!?;:\"'")] = true
	}
	return out
}

func overlapScore(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for w := range a {
		if b[w] {
			common++
		}
	}
	return float64(common) / float64(len(a))
}

// SmartVectorSearchWithChunks queries the chromem collection by the
// already-embedded query vector. Local storage keeps no separate chunk
// rows, so the chunk slice is always empty here.
func (s *LocalStore) SmartVectorSearchWithChunks(ctx context.Context, queryVector []float64, limit int) ([]store.MemoryHit, []store.ChunkHit, error) {
	if limit <= 0 {
		limit = 1
	}
	vec := make([]float32, len(queryVector))
	for i, v := range queryVector {
		vec[i] = float32(v)
	}

	count := s.all.Count()
	if count == 0 {
		return nil, nil, nil
	}
	n := limit
	if n > count {
		n = count
	}

	results, err := s.all.QueryEmbedding(ctx, vec, n, nil, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("query embedding: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	hits := make([]store.MemoryHit, 0, len(results))
	for _, r := range results {
		m, ok := s.memories[r.ID]
		if !ok {
			continue
		}
		hits = append(hits, store.MemoryHit{
			MemoryID:        m.MemoryID,
			Content:         m.Content,
			SimilarityScore: float64(r.Similarity),
			CreatedAt:       m.CreatedAt,
		})
	}
	return hits, nil, nil
}

func (s *LocalStore) GetMemoryLogicalConnections(ctx context.Context, memoryID string) (store.LogicalConnections, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.LogicalConnections{
		ImpliesOut:     s.implies.out[memoryID],
		ImpliesIn:      s.implies.in[memoryID],
		BecauseOut:     s.because.out[memoryID],
		BecauseIn:      s.because.in[memoryID],
		ContradictsOut: s.contradicts.out[memoryID],
		ContradictsIn:  s.contradicts.in[memoryID],
		RelationOut:    s.relation.out[memoryID],
		RelationIn:     s.relation.in[memoryID],
	}, nil
}

func (s *LocalStore) GetMemory(ctx context.Context, memoryID string) (store.MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	internal, ok := s.externalID[memoryID]
	if !ok {
		return store.MemoryRecord{}, fmt.Errorf("memory not found: %s", memoryID)
	}
	m, ok := s.memories[internal]
	if !ok {
		return store.MemoryRecord{}, fmt.Errorf("memory not found: %s", memoryID)
	}
	return *m, nil
}

func (s *LocalStore) AddMemory(ctx context.Context, in store.AddMemoryInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	internalID := fmt.Sprintf("int_%d", len(s.memories)+1)
	now := time.Now()
	rec := &store.MemoryRecord{
		MemoryID:   in.ExternalID,
		InternalID: internalID,
		Content:    in.Content,
		MemoryType: in.MemoryType,
		CreatedAt:  now,
		UpdatedAt:  now,
		OwnerID:    in.OwnerID,
		Certainty:  in.Certainty,
		Importance: in.Importance,
	}
	s.memories[internalID] = rec
	s.externalID[in.ExternalID] = internalID

	if err := s.all.AddDocument(ctx, chromem.Document{ID: in.ExternalID, Content: in.Content}); err != nil {
		log.Printf("[LOCALSTORE] addMemory: failed to seed collection doc (embedding added later): %v", err)
	}

	log.Printf("[LOCALSTORE] addMemory id=%s owner=%s type=%s", in.ExternalID, in.OwnerID, in.MemoryType)
	return internalID, nil
}

func (s *LocalStore) UpdateMemory(ctx context.Context, memoryID string, content string, vector []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	internal, ok := s.externalID[memoryID]
	if !ok {
		return fmt.Errorf("memory not found: %s", memoryID)
	}
	s.memories[internal].Content = content
	s.memories[internal].UpdatedAt = time.Now()
	return nil
}

func (s *LocalStore) UpdateMemoryByID(ctx context.Context, internalID string, content string, certainty, importance int, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memories[internalID]
	if !ok {
		return fmt.Errorf("memory not found (internal): %s", internalID)
	}
	m.Content = content
	m.Certainty = certainty
	m.Importance = importance
	m.UpdatedAt = updatedAt
	return nil
}

func (s *LocalStore) DeleteMemory(ctx context.Context, memoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	internal, ok := s.externalID[memoryID]
	if !ok {
		return nil
	}
	delete(s.memories, internal)
	delete(s.externalID, memoryID)
	log.Printf("[LOCALSTORE] deleteMemory id=%s", memoryID)
	return nil
}

func (s *LocalStore) AddMemoryEmbedding(ctx context.Context, internalID string, vector []float64, model string, createdAt time.Time) error {
	s.mu.RLock()
	m, ok := s.memories[internalID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("memory not found (internal): %s", internalID)
	}
	vec := make([]float32, len(vector))
	for i, v := range vector {
		vec[i] = float32(v)
	}
	if err := s.all.AddDocument(ctx, chromem.Document{ID: m.MemoryID, Content: m.Content, Embedding: vec}); err != nil {
		return fmt.Errorf("add embedding: %w", err)
	}
	return nil
}

func (s *LocalStore) LinkUserToMemory(ctx context.Context, userID, memoryID, ctxLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userMems[userID] = append(s.userMems[userID], memoryID)
	return nil
}

func (s *LocalStore) AddMemoryImplication(ctx context.Context, fromID, toID string, strength int, createdAt time.Time) error {
	return s.addTypedEdge(&s.implies, fromID, toID, createdAt)
}

func (s *LocalStore) AddMemoryCausation(ctx context.Context, fromID, toID string, strength int, createdAt time.Time) error {
	return s.addTypedEdge(&s.because, fromID, toID, createdAt)
}

func (s *LocalStore) AddMemoryContradiction(ctx context.Context, fromID, toID string, strength int, createdAt time.Time, resolved bool, resolutionStrategy string) error {
	return s.addTypedEdge(&s.contradicts, fromID, toID, createdAt)
}

func (s *LocalStore) AddReasoningRelation(ctx context.Context, relationID, fromID, toID string, strength int, explanation, createdBy string, createdAt time.Time) error {
	if err := s.addTypedEdge(&s.relation, fromID, toID, createdAt); err != nil {
		return err
	}
	s.mu.Lock()
	s.recent = append(s.recent, store.RecentRelation{ID: relationID, FromID: fromID, ToID: toID, Type: "SUPPORTS", Strength: strength})
	s.mu.Unlock()
	return nil
}

func (s *LocalStore) addTypedEdge(b *edgeBuckets, fromID, toID string, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fromContent, toContent := "", ""
	if fi, ok := s.externalID[fromID]; ok {
		fromContent = s.memories[fi].Content
	}
	if ti, ok := s.externalID[toID]; ok {
		toContent = s.memories[ti].Content
	}
	b.out[fromID] = append(b.out[fromID], store.Neighbor{MemoryID: toID, Content: toContent, CreatedAt: createdAt})
	b.in[toID] = append(b.in[toID], store.Neighbor{MemoryID: fromID, Content: fromContent, CreatedAt: createdAt})
	return nil
}

func (s *LocalStore) GetRecentRelations(ctx context.Context, limit int, memoryID string) ([]store.RecentRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.RecentRelation
	for i := len(s.recent) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.recent[i]
		if memoryID != "" && r.FromID != memoryID && r.ToID != memoryID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *LocalStore) GetUserMemories(ctx context.Context, userID string, limit int) ([]store.MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.userMems[userID]
	var out []store.MemoryRecord
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		internal, ok := s.externalID[ids[i]]
		if !ok {
			continue
		}
		out = append(out, *s.memories[internal])
	}
	return out, nil
}

func (s *LocalStore) GetMemoryConcepts(ctx context.Context, memoryID string) (store.ConceptLinks, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.concepts[memoryID], nil
}

func (s *LocalStore) LinkMemoryToInstanceOf(ctx context.Context, memoryID, conceptID string, confidence int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	links := s.concepts[memoryID]
	links.InstanceOf = append(links.InstanceOf, store.ConceptRef{ID: conceptID, Name: conceptID})
	s.concepts[memoryID] = links
	return nil
}

func (s *LocalStore) Close() error { return nil }
