// Package chunker splits source text into bounded, overlapping chunks ready
// for embedding and upload.
package chunker

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/voyago/tripgraph/travel"
)

// PreviewLen bounds the preview string stored with each chunk's metadata.
const PreviewLen = 200

// Chunker produces travel.Chunks from raw text.
type Chunker struct {
	splitter  textsplitter.TextSplitter
	chunkSize int
}

// Option configures the Chunker.
type Option func(*settings)

type settings struct {
	chunkSize    int
	chunkOverlap int
}

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) Option {
	return func(s *settings) {
		s.chunkSize = size
	}
}

// WithChunkOverlap sets the overlap carried between adjacent chunks.
func WithChunkOverlap(overlap int) Option {
	return func(s *settings) {
		s.chunkOverlap = overlap
	}
}

// New creates a Chunker. Defaults: 2000 character chunks with 200 character
// overlap.
func New(opts ...Option) *Chunker {
	s := settings{
		chunkSize:    2000,
		chunkOverlap: 200,
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(s.chunkSize),
			textsplitter.WithChunkOverlap(s.chunkOverlap),
		),
		chunkSize: s.chunkSize,
	}
}

// Split chunks text and attaches the provided metadata to every chunk. When
// metadata carries an "id" field, chunk IDs derive from it as "<id>_<n>";
// otherwise a random identifier is generated. Text never exceeds the
// configured chunk size.
func (c *Chunker) Split(text string, metadata map[string]any) ([]travel.Chunk, error) {
	pieces, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	baseID := ""
	if metadata != nil {
		if v, ok := metadata["id"]; ok {
			baseID = fmt.Sprintf("%v", v)
		}
	}

	chunks := make([]travel.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		if piece == "" {
			continue
		}

		md := make(map[string]any, len(metadata)+1)
		maps.Copy(md, metadata)
		md["chunk"] = i

		id := baseID
		if id == "" {
			id = uuid.NewString()
		}
		if len(pieces) > 1 || baseID == "" {
			id = fmt.Sprintf("%s_%d", id, i)
		}

		chunks = append(chunks, travel.Chunk{
			ID:       id,
			Text:     piece,
			Preview:  Preview(piece),
			Metadata: md,
		})
	}

	return chunks, nil
}

// Preview returns the leading slice of text used as a stored preview.
func Preview(text string) string {
	if len(text) <= PreviewLen {
		return text
	}
	return text[:PreviewLen]
}
