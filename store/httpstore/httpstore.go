// Package httpstore is the production store.Store implementation: a thin
// JSON-over-HTTP client that posts a single operation name plus a params
// object to one endpoint and decodes the typed response, mirroring the
// original client's execute_query(op_name, params) shape.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/becomeliminal/cortex/store"
)

// HTTPStore talks to the external graph+vector store over HTTP.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// New creates an HTTPStore pointed at baseURL, using timeout for every call.
func New(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPStore{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// execute posts {op, params} to the store's single query endpoint and
// decodes the JSON response into out.
func (s *HTTPStore) execute(ctx context.Context, op string, params any, out any) error {
	body, err := json.Marshal(struct {
		Op     string `json:"op"`
		Params any    `json:"params"`
	}{Op: op, Params: params})
	if err != nil {
		return fmt.Errorf("marshal request for %s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request for %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: store returned status %d", op, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s: %w", op, err)
	}
	return nil
}

func (s *HTTPStore) VectorSearch(ctx context.Context, in store.VectorSearchInput) ([]store.MemoryHit, error) {
	var out struct {
		Memories []store.MemoryHit `json:"memories"`
	}
	if err := s.execute(ctx, "vectorSearch", in, &out); err != nil {
		return nil, err
	}
	return out.Memories, nil
}

func (s *HTTPStore) SmartVectorSearchWithChunks(ctx context.Context, queryVector []float64, limit int) ([]store.MemoryHit, []store.ChunkHit, error) {
	var out struct {
		Memories []store.MemoryHit `json:"memories"`
		Chunks   []store.ChunkHit  `json:"chunks"`
	}
	params := struct {
		QueryVector []float64 `json:"query_vector"`
		Limit       int       `json:"limit"`
	}{queryVector, limit}
	if err := s.execute(ctx, "smartVectorSearchWithChunks", params, &out); err != nil {
		return nil, nil, err
	}
	return out.Memories, out.Chunks, nil
}

func (s *HTTPStore) GetMemoryLogicalConnections(ctx context.Context, memoryID string) (store.LogicalConnections, error) {
	var out store.LogicalConnections
	params := struct {
		MemoryID string `json:"memory_id"`
	}{memoryID}
	if err := s.execute(ctx, "getMemoryLogicalConnections", params, &out); err != nil {
		return store.LogicalConnections{}, err
	}
	return out, nil
}

func (s *HTTPStore) GetMemory(ctx context.Context, memoryID string) (store.MemoryRecord, error) {
	var out struct {
		Memory store.MemoryRecord `json:"memory"`
	}
	params := struct {
		MemoryID string `json:"memory_id"`
	}{memoryID}
	if err := s.execute(ctx, "getMemory", params, &out); err != nil {
		return store.MemoryRecord{}, err
	}
	return out.Memory, nil
}

func (s *HTTPStore) AddMemory(ctx context.Context, in store.AddMemoryInput) (string, error) {
	var out struct {
		Memory struct {
			ID string `json:"id"`
		} `json:"memory"`
	}
	if err := s.execute(ctx, "addMemory", in, &out); err != nil {
		return "", err
	}
	return out.Memory.ID, nil
}

func (s *HTTPStore) UpdateMemory(ctx context.Context, memoryID string, content string, vector []float64) error {
	params := struct {
		MemoryID string    `json:"memory_id"`
		Content  string    `json:"content"`
		Vector   []float64 `json:"vector"`
	}{memoryID, content, vector}
	return s.execute(ctx, "updateMemory", params, nil)
}

func (s *HTTPStore) UpdateMemoryByID(ctx context.Context, internalID string, content string, certainty, importance int, updatedAt time.Time) error {
	params := struct {
		ID         string    `json:"id"`
		Content    string    `json:"content"`
		Certainty  int       `json:"certainty"`
		Importance int       `json:"importance"`
		UpdatedAt  time.Time `json:"updated_at"`
	}{internalID, content, certainty, importance, updatedAt}
	return s.execute(ctx, "updateMemoryById", params, nil)
}

func (s *HTTPStore) DeleteMemory(ctx context.Context, memoryID string) error {
	params := struct {
		MemoryID string `json:"memory_id"`
	}{memoryID}
	return s.execute(ctx, "deleteMemory", params, nil)
}

func (s *HTTPStore) AddMemoryEmbedding(ctx context.Context, internalID string, vector []float64, model string, createdAt time.Time) error {
	params := struct {
		MemoryID       string    `json:"memory_id"`
		VectorData     []float64 `json:"vector_data"`
		EmbeddingModel string    `json:"embedding_model"`
		CreatedAt      time.Time `json:"created_at"`
	}{internalID, vector, model, createdAt}
	return s.execute(ctx, "addMemoryEmbedding", params, nil)
}

func (s *HTTPStore) LinkUserToMemory(ctx context.Context, userID, memoryID, contextLabel string) error {
	params := struct {
		UserID   string `json:"user_id"`
		MemoryID string `json:"memory_id"`
		Context  string `json:"context"`
	}{userID, memoryID, contextLabel}
	return s.execute(ctx, "linkUserToMemory", params, nil)
}

type relationParams struct {
	FromID    string    `json:"from_id"`
	ToID      string    `json:"to_id"`
	Strength  int       `json:"strength"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *HTTPStore) AddMemoryImplication(ctx context.Context, fromID, toID string, strength int, createdAt time.Time) error {
	return s.execute(ctx, "addMemoryImplication", relationParams{fromID, toID, strength, createdAt}, nil)
}

func (s *HTTPStore) AddMemoryCausation(ctx context.Context, fromID, toID string, strength int, createdAt time.Time) error {
	return s.execute(ctx, "addMemoryCausation", relationParams{fromID, toID, strength, createdAt}, nil)
}

func (s *HTTPStore) AddMemoryContradiction(ctx context.Context, fromID, toID string, strength int, createdAt time.Time, resolved bool, resolutionStrategy string) error {
	params := struct {
		relationParams
		Resolved           bool   `json:"resolved"`
		ResolutionStrategy string `json:"resolution_strategy"`
	}{relationParams{fromID, toID, strength, createdAt}, resolved, resolutionStrategy}
	return s.execute(ctx, "addMemoryContradiction", params, nil)
}

func (s *HTTPStore) AddReasoningRelation(ctx context.Context, relationID, fromID, toID string, strength int, explanation, createdBy string, createdAt time.Time) error {
	params := struct {
		RelationID  string    `json:"relation_id"`
		FromID      string    `json:"from_id"`
		ToID        string    `json:"to_id"`
		Strength    int       `json:"strength"`
		Explanation string    `json:"explanation"`
		CreatedBy   string    `json:"created_by"`
		CreatedAt   time.Time `json:"created_at"`
	}{relationID, fromID, toID, strength, explanation, createdBy, createdAt}
	return s.execute(ctx, "addReasoningRelation", params, nil)
}

func (s *HTTPStore) GetRecentRelations(ctx context.Context, limit int, memoryID string) ([]store.RecentRelation, error) {
	var out struct {
		Relations []store.RecentRelation `json:"relations"`
	}
	params := struct {
		Limit    int    `json:"limit"`
		MemoryID string `json:"memory_id,omitempty"`
	}{limit, memoryID}
	if err := s.execute(ctx, "getRecentRelations", params, &out); err != nil {
		return nil, err
	}
	return out.Relations, nil
}

func (s *HTTPStore) GetUserMemories(ctx context.Context, userID string, limit int) ([]store.MemoryRecord, error) {
	var out struct {
		Memories []store.MemoryRecord `json:"memories"`
	}
	params := struct {
		UserID string `json:"user_id"`
		Limit  int    `json:"limit"`
	}{userID, limit}
	if err := s.execute(ctx, "getUserMemories", params, &out); err != nil {
		return nil, err
	}
	return out.Memories, nil
}

func (s *HTTPStore) GetMemoryConcepts(ctx context.Context, memoryID string) (store.ConceptLinks, error) {
	var out store.ConceptLinks
	params := struct {
		MemoryID string `json:"memory_id"`
	}{memoryID}
	if err := s.execute(ctx, "getMemoryConcepts", params, &out); err != nil {
		return store.ConceptLinks{}, err
	}
	return out, nil
}

func (s *HTTPStore) LinkMemoryToInstanceOf(ctx context.Context, memoryID, conceptID string, confidence int) error {
	params := struct {
		MemoryID   string `json:"memory_id"`
		ConceptID  string `json:"concept_id"`
		Confidence int    `json:"confidence"`
	}{memoryID, conceptID, confidence}
	return s.execute(ctx, "linkMemoryToInstanceOf", params, nil)
}

func (s *HTTPStore) Close() error { return nil }
