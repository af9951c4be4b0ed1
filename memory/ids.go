package memory

import "github.com/google/uuid"

// NewMemoryID mints an external memory id: "mem_" + first 12 hex chars of a uuid.
func NewMemoryID() string {
	return "mem_" + strippedUUID()[:12]
}

func strippedUUID() string {
	u := uuid.New().String()
	out := make([]byte, 0, 32)
	for _, r := range u {
		if r != '-' {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// NewRelationID builds the reasoning relation cache key "rel_<from8>_<to8>".
func NewRelationID(from, to string) string {
	return "rel_" + firstN(from, 8) + "_" + firstN(to, 8)
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
