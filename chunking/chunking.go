// Package chunking implements the chunking manager collaborator: it decides
// whether a memory's content is long enough to need sub-division and
// produces chunk rows for it.
package chunking

import (
	"strconv"

	"github.com/becomeliminal/cortex/memory"
)

// Manager is the default chunking manager. Threshold is the content length
// (in runes) above which ShouldChunk reports true.
type Manager struct {
	Threshold int
	ChunkSize int
}

// New creates a chunking manager with sensible defaults (threshold 500,
// chunk size 200).
func New() *Manager {
	return &Manager{Threshold: 500, ChunkSize: 200}
}

// ShouldChunk reports whether text exceeds the configured threshold.
func (m *Manager) ShouldChunk(text string) bool {
	return len([]rune(text)) > m.Threshold
}

// AddMemoryWithChunking splits content into fixed-size chunks referencing
// memoryID and returns them along with the count.
func (m *Manager) AddMemoryWithChunking(memoryID, content string) ([]memory.Chunk, int) {
	runes := []rune(content)
	size := m.ChunkSize
	if size <= 0 {
		size = 200
	}
	var chunks []memory.Chunk
	for i, idx := 0, 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, memory.Chunk{
			ID:       memoryID + "_chunk_" + strconv.Itoa(idx),
			MemoryID: memoryID,
			Index:    idx,
			Content:  string(runes[i:end]),
		})
		idx++
	}
	return chunks, len(chunks)
}
