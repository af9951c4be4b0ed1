package search

import "context"

// Hybrid blends vector similarity and BM25 lexical scores. Each side's raw
// scores are min-max normalized to [0,1] before blending, so neither
// scorer's native scale (cosine similarity vs. unbounded BM25 score)
// dominates the combination.
type Hybrid struct {
	Vector *VectorSearch
	BM25   *BM25

	// VectorWeight and BM25Weight blend the two normalized score sets.
	// They need not sum to 1; callers that want a strict convex
	// combination should set them that way themselves.
	VectorWeight float64
	BM25Weight   float64
}

// NewHybrid creates a Hybrid search with the documented default weights
// (0.6 vector, 0.4 lexical).
func NewHybrid(vector *VectorSearch, bm25 *BM25) *Hybrid {
	return &Hybrid{Vector: vector, BM25: bm25, VectorWeight: 0.6, BM25Weight: 0.4}
}

func normalize(results []Result, score func(Result) float64, set func(*Result, float64)) {
	if len(results) == 0 {
		return
	}
	min, max := score(results[0]), score(results[0])
	for _, r := range results {
		s := score(r)
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	spread := max - min
	for i := range results {
		if spread == 0 {
			set(&results[i], 1.0)
			continue
		}
		set(&results[i], (score(results[i])-min)/spread)
	}
}

// Search runs vector and BM25 search independently, normalizes each result
// set's native score, and blends them by MemoryID into a single ranked list.
func (h *Hybrid) Search(ctx context.Context, query, userID string, docs []Document, limit int, minVectorScore float64) ([]Result, error) {
	vectorResults, err := h.Vector.Search(ctx, query, userID, limit, minVectorScore, true)
	if err != nil {
		return nil, err
	}
	bm25Results := h.BM25.Search(query, docs, limit)

	normalize(vectorResults, func(r Result) float64 { return r.VectorScore }, func(r *Result, v float64) { r.VectorScore = v })
	normalize(bm25Results, func(r Result) float64 { return r.BM25Score }, func(r *Result, v float64) { r.BM25Score = v })

	blended := make(map[string]*Result, len(vectorResults)+len(bm25Results))
	order := make([]string, 0, len(vectorResults)+len(bm25Results))

	for _, r := range vectorResults {
		r := r
		r.Method = MethodHybrid
		r.Source = "hybrid"
		r.Combined = h.VectorWeight * r.VectorScore
		blended[r.MemoryID] = &r
		order = append(order, r.MemoryID)
	}
	for _, r := range bm25Results {
		if existing, ok := blended[r.MemoryID]; ok {
			existing.BM25Score = r.BM25Score
			existing.Combined += h.BM25Weight * r.BM25Score
			continue
		}
		r := r
		r.Method = MethodHybrid
		r.Source = "hybrid"
		r.Combined = h.BM25Weight * r.BM25Score
		blended[r.MemoryID] = &r
		order = append(order, r.MemoryID)
	}

	out := make([]Result, 0, len(order))
	for i, id := range order {
		r := *blended[id]
		r.seq = i
		out = append(out, r)
	}
	sortByCombinedDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
