package search

import "sort"

// sortByCombinedDesc sorts results by Combined descending, stable on ties
// (so equal scores preserve relative insertion order via seq).
func sortByCombinedDesc(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Combined > results[j].Combined
	})
}

// RankAndFilter merges results across sources by MemoryID, keeping the
// higher-Combined-score entry per id, drops anything below
// minCombinedScore, and sorts the remainder by Combined descending (stable
// on ties by first-seen order).
func RankAndFilter(results []Result, minCombinedScore float64) []Result {
	best := make(map[string]Result, len(results))
	order := make([]string, 0, len(results))

	for i, r := range results {
		r.seq = i
		existing, ok := best[r.MemoryID]
		if !ok {
			best[r.MemoryID] = r
			order = append(order, r.MemoryID)
			continue
		}
		if r.Combined > existing.Combined {
			r.seq = existing.seq // preserve original first-seen position for tie-breaking
			best[r.MemoryID] = r
		}
	}

	out := make([]Result, 0, len(order))
	for _, id := range order {
		r := best[id]
		if r.Combined < minCombinedScore {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Combined != out[j].Combined {
			return out[i].Combined > out[j].Combined
		}
		return out[i].seq < out[j].seq
	})
	return out
}
