// Package httpembedder is an HTTP-backed Embedder with a primary provider
// and an optional fallback provider, per the data model's "the embedder
// may use a primary provider and a fallback provider".
package httpembedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Embedder calls an HTTP embedding endpoint, falling back to a secondary
// endpoint if the primary call fails.
type Embedder struct {
	primaryURL  string
	fallbackURL string
	model       string
	client      *http.Client
}

// New creates an Embedder. fallbackURL may be empty to disable fallback.
func New(primaryURL, fallbackURL, model string, timeout time.Duration) *Embedder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Embedder{
		primaryURL:  primaryURL,
		fallbackURL: fallbackURL,
		model:       model,
		client:      &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	Text      string `json:"text"`
	Normalize bool   `json:"normalize"`
}

type embedResponse struct {
	Vector []float64 `json:"vector"`
}

func (e *Embedder) call(ctx context.Context, url, text string, normalize bool) ([]float64, error) {
	body, err := json.Marshal(embedRequest{Text: text, Normalize: normalize})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("embed endpoint returned status %d", resp.StatusCode)
	}
	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	return out.Vector, nil
}

// Generate calls the primary embedding endpoint, falling back on failure.
func (e *Embedder) Generate(ctx context.Context, text string, normalize bool) ([]float64, error) {
	vec, err := e.call(ctx, e.primaryURL, text, normalize)
	if err == nil {
		return vec, nil
	}
	if e.fallbackURL == "" {
		return nil, fmt.Errorf("primary embedder failed, no fallback configured: %w", err)
	}
	log.Printf("[EMBED] primary embedder failed, trying fallback: %v", err)
	return e.call(ctx, e.fallbackURL, text, normalize)
}

// Model returns the embedding model name.
func (e *Embedder) Model() string { return e.model }
