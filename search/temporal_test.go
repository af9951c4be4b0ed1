package search_test

import (
	"testing"
	"time"

	"github.com/becomeliminal/cortex/search"
)

func TestFreshnessMonotoneNonIncreasingInAge(t *testing.T) {
	now := time.Now()
	recent := search.FreshnessFromTime(now.Add(-1*24*time.Hour), 30)
	older := search.FreshnessFromTime(now.Add(-10*24*time.Hour), 30)
	oldest := search.FreshnessFromTime(now.Add(-60*24*time.Hour), 30)

	if !(recent >= older && older >= oldest) {
		t.Errorf("freshness not monotone non-increasing: recent=%v older=%v oldest=%v", recent, older, oldest)
	}
}

func TestFreshnessFutureEqualsNow(t *testing.T) {
	// Freshness of "now" is freshness at age zero, exp(0) = 1. Recomputing it
	// from a time.Now() taken earlier would see a few nanoseconds of age.
	future := time.Now().Add(48 * time.Hour)
	if got, want := search.FreshnessFromTime(future, 30), 1.0; got != want {
		t.Errorf("freshness(future) = %v, want freshness(now) = %v", got, want)
	}
}

func TestFreshnessParseFailureReturnsNeutral(t *testing.T) {
	if got := search.Freshness("not-a-timestamp", 30); got != 0.5 {
		t.Errorf("Freshness(invalid) = %v, want 0.5", got)
	}
}

func TestFreshnessInRange(t *testing.T) {
	f := search.FreshnessFromTime(time.Now().Add(-100*24*time.Hour), 30)
	if f < 0 || f > 1 {
		t.Errorf("freshness out of [0,1]: %v", f)
	}
}
