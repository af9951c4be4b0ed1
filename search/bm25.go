package search

import (
	"math"
	"strings"
)

// Document is one row of the in-memory document list the BM25 scorer ranks.
type Document struct {
	MemoryID string
	Content  string
}

// BM25 is the default lexical scorer collaborator implementation: classic
// Okapi BM25 over an in-memory document list (k1=1.5, b=0.75).
type BM25 struct {
	K1 float64
	B  float64
}

// NewBM25 creates a BM25 scorer with standard defaults.
func NewBM25() *BM25 {
	return &BM25{K1: 1.5, B: 0.75}
}

func tokenizeBM25(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// Search ranks docs against query using Okapi BM25.
func (bm *BM25) Search(query string, docs []Document, limit int) []Result {
	qTokens := tokenizeBM25(query)
	if len(qTokens) == 0 || len(docs) == 0 {
		return nil
	}

	docTokens := make([][]string, len(docs))
	avgLen := 0.0
	df := make(map[string]int) // document frequency per term
	for i, d := range docs {
		toks := tokenizeBM25(d.Content)
		docTokens[i] = toks
		avgLen += float64(len(toks))
		seen := map[string]bool{}
		for _, t := range toks {
			if !seen[t] {
				df[t]++
				seen[t] = true
			}
		}
	}
	avgLen /= float64(len(docs))
	n := float64(len(docs))

	results := make([]Result, 0, len(docs))
	for i, d := range docs {
		toks := docTokens[i]
		tf := make(map[string]int)
		for _, t := range toks {
			tf[t]++
		}

		score := 0.0
		docLen := float64(len(toks))
		for _, qt := range qTokens {
			f, ok := tf[qt]
			if !ok {
				continue
			}
			idf := math.Log(1 + (n-float64(df[qt])+0.5)/(float64(df[qt])+0.5))
			numerator := float64(f) * (bm.K1 + 1)
			denominator := float64(f) + bm.K1*(1-bm.B+bm.B*docLen/avgLen)
			score += idf * numerator / denominator
		}
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			MemoryID:  d.MemoryID,
			Content:   d.Content,
			Method:    MethodBM25,
			BM25Score: score,
			Combined:  score,
			Source:    "bm25",
			seq:       i,
		})
	}

	sortByCombinedDesc(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
