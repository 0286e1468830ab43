package travel

import (
	"context"
	"fmt"
	"strings"
)

// Location represents a single point of interest loaded from tabular input.
// Identity is the ID, which is unique within the graph store. Locations are
// read-only after load.
type Location struct {
	ID          string
	Name        string
	Type        string
	Description string
	Country     string
	City        string
	Lat         float64
	Lon         float64
	Rating      float64
	Tags        []string
}

// Summary renders a one-line description suitable for prompt context.
func (l Location) Summary() string {
	var b strings.Builder
	b.WriteString(l.Name)
	if l.Type != "" {
		fmt.Fprintf(&b, " (%s", l.Type)
		if l.Rating > 0 {
			fmt.Fprintf(&b, ", rated %.1f", l.Rating)
		}
		b.WriteString(")")
	} else if l.Rating > 0 {
		fmt.Fprintf(&b, " (rated %.1f)", l.Rating)
	}
	if l.Description != "" {
		b.WriteString(": ")
		b.WriteString(l.Description)
	}
	return b.String()
}

// Chunk is a bounded span of source document text used as the unit of
// embedding and retrieval. Chunks are immutable once created.
type Chunk struct {
	ID       string
	Text     string
	Preview  string
	Metadata map[string]any
}

// MetaString returns a metadata field as a string, or "" when absent.
func (c Chunk) MetaString(key string) string {
	if c.Metadata == nil {
		return ""
	}
	if v, ok := c.Metadata[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// Intent is the coarse classification of an incoming query.
type Intent string

const (
	IntentItinerary      Intent = "itinerary"
	IntentRecommendation Intent = "recommendation"
	IntentFactual        Intent = "factual"
	IntentGeneral        Intent = "general"
)

// GraphResult is a location returned by the graph store with its relevance
// score. Fallback substring matches carry a uniform score.
type GraphResult struct {
	Location Location
	Score    float64
}

// VectorResult is a chunk returned by the vector index with its similarity
// score, ordered descending by the index.
type VectorResult struct {
	Chunk Chunk
	Score float64
}

// Embedder converts text into fixed-length vectors.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// GraphStore answers keyword lookups and simple relationship traversals over
// the travel knowledge graph.
type GraphStore interface {
	Search(ctx context.Context, text string, limit int) ([]GraphResult, error)
	ByCountry(ctx context.Context, country string, limit int) ([]Location, error)
	Neighbors(ctx context.Context, ids []string, limit int) ([]GraphResult, error)
}

// VectorIndex retrieves the chunks nearest to a query.
type VectorIndex interface {
	Search(ctx context.Context, query string, k int, filter map[string]any) ([]VectorResult, error)
}
