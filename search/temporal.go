package search

import (
	"math"
	"time"
)

// Freshness returns a value in [0,1] monotonically decreasing in age.
// createdAt is parsed as RFC-3339; on parse failure returns 0.5 (neutral).
// Age is clamped at 0 for future timestamps (so freshness of a future
// timestamp equals freshness of "now").
func Freshness(createdAtRFC3339 string, halfLifeDays float64) float64 {
	t, err := time.Parse(time.RFC3339, createdAtRFC3339)
	if err != nil {
		return 0.5
	}
	return FreshnessFromTime(t, halfLifeDays)
}

// FreshnessFromTime is Freshness for an already-parsed timestamp.
func FreshnessFromTime(createdAt time.Time, halfLifeDays float64) float64 {
	if halfLifeDays <= 0 {
		halfLifeDays = 30
	}
	ageDays := time.Since(createdAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-ageDays * math.Ln2 / halfLifeDays)
}
