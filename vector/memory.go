package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/voyago/tripgraph/travel"
)

// MemoryIndex is an in-memory vector index with the same search semantics as
// the hosted one: cosine similarity, descending order, metadata filtering
// before scoring.
type MemoryIndex struct {
	embedder embeddings.Embedder

	mu      sync.RWMutex
	chunks  []travel.Chunk
	vectors [][]float32
}

var _ travel.VectorIndex = (*MemoryIndex)(nil)

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex(embedder embeddings.Embedder) *MemoryIndex {
	return &MemoryIndex{embedder: embedder}
}

// Upsert embeds and stores chunks. Re-upserting an existing chunk ID
// replaces it.
func (x *MemoryIndex) Upsert(ctx context.Context, chunks []travel.Chunk) (*UpsertReport, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := x.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	for i, chunk := range chunks {
		if j := x.indexOf(chunk.ID); j >= 0 {
			x.chunks[j] = chunk
			x.vectors[j] = vectors[i]
			continue
		}
		x.chunks = append(x.chunks, chunk)
		x.vectors = append(x.vectors, vectors[i])
	}

	return &UpsertReport{Uploaded: len(chunks)}, nil
}

// indexOf must be called with the lock held.
func (x *MemoryIndex) indexOf(id string) int {
	for i, c := range x.chunks {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Search returns the top-k chunks by cosine similarity, after filtering by
// metadata equality (a "tags" filter value matches when present in the
// chunk's tag list).
func (x *MemoryIndex) Search(ctx context.Context, query string, k int, filter map[string]any) ([]travel.VectorResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	queryVec, err := x.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	results := make([]travel.VectorResult, 0, k)
	for i, chunk := range x.chunks {
		if !matchesFilter(chunk, filter) {
			continue
		}
		results = append(results, travel.VectorResult{
			Chunk: chunk,
			Score: cosineSimilarity(queryVec, x.vectors[i]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Len reports the number of stored chunks.
func (x *MemoryIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks)
}

func matchesFilter(chunk travel.Chunk, filter map[string]any) bool {
	for key, want := range filter {
		wantStr := fmt.Sprintf("%v", want)
		if key == "tags" {
			if !hasTag(chunk, wantStr) {
				return false
			}
			continue
		}
		if !strings.EqualFold(chunk.MetaString(key), wantStr) {
			return false
		}
	}
	return true
}

func hasTag(chunk travel.Chunk, want string) bool {
	raw, ok := chunk.Metadata["tags"]
	if !ok {
		return false
	}
	switch tags := raw.(type) {
	case []string:
		for _, t := range tags {
			if strings.EqualFold(t, want) {
				return true
			}
		}
	case []any:
		for _, t := range tags {
			if strings.EqualFold(fmt.Sprintf("%v", t), want) {
				return true
			}
		}
	case string:
		return strings.EqualFold(tags, want)
	}
	return false
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
