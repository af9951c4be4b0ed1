package search

// Config composes the smart traversal orchestrator's phases.
type Config struct {
	VectorTopK       int
	GraphDepth       int
	MinVectorScore   float64
	MinCombinedScore float64
	EdgeTypes        []string
}

// DefaultConfig returns the orchestrator's documented defaults.
func DefaultConfig() Config {
	return Config{
		VectorTopK:       10,
		GraphDepth:       2,
		MinVectorScore:   0.5,
		MinCombinedScore: 0.3,
		EdgeTypes:        []string{"BECAUSE", "IMPLIES", "MEMORY_RELATION"},
	}
}

// Mode is a named retrieval preset applied by the outer search engine.
type Mode string

const (
	ModeRecent     Mode = "recent"
	ModeContextual Mode = "contextual"
	ModeDeep       Mode = "deep"
	ModeFull       Mode = "full"
)

// ModePreset resolves mode and limit to a Config and an optional temporal
// cutoff in days (nil means no cutoff). ok is false for unknown modes, in
// which case the caller should fall back to plain vector search.
func ModePreset(mode Mode, limit int) (cfg Config, temporalCutoffDays *int, ok bool) {
	preset := DefaultConfig()
	days := func(d int) *int { return &d }

	switch mode {
	case ModeRecent:
		preset.GraphDepth = 1
		preset.VectorTopK = limit
		return preset, days(7), true
	case ModeContextual:
		preset.GraphDepth = 2
		preset.VectorTopK = limit
		return preset, days(30), true
	case ModeDeep:
		preset.GraphDepth = 3
		preset.VectorTopK = 2 * limit
		return preset, days(30), true
	case ModeFull:
		preset.GraphDepth = 4
		preset.VectorTopK = 2 * limit
		preset.MinCombinedScore = 0.3
		return preset, nil, true
	default:
		return Config{}, nil, false
	}
}
