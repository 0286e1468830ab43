package chunker

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	t.Run("short text stays one chunk", func(t *testing.T) {
		c := New()
		chunks, err := c.Split("A short description of Hanoi.", map[string]any{"id": "hanoi"})
		assert.NoError(t, err)
		assert.Len(t, chunks, 1)
		assert.Equal(t, "hanoi_0", chunks[0].ID)
		assert.Equal(t, "A short description of Hanoi.", chunks[0].Text)
	})

	t.Run("long text splits within bounds", func(t *testing.T) {
		c := New(WithChunkSize(100), WithChunkOverlap(20))

		var b strings.Builder
		for i := 0; i < 40; i++ {
			b.WriteString("The old quarter has narrow streets. ")
		}

		chunks, err := c.Split(b.String(), map[string]any{"id": "doc"})
		assert.NoError(t, err)
		assert.Greater(t, len(chunks), 1)
		for i, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk.Text), 100)
			assert.Equal(t, i, chunk.Metadata["chunk"])
		}
	})

	t.Run("metadata copied onto every chunk", func(t *testing.T) {
		c := New(WithChunkSize(80), WithChunkOverlap(10))

		text := strings.Repeat("Temples line the riverbank here. ", 10)
		chunks, err := c.Split(text, map[string]any{
			"id":      "hue",
			"country": "Vietnam",
		})
		assert.NoError(t, err)
		assert.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.Equal(t, "Vietnam", chunk.Metadata["country"])
		}
	})

	t.Run("chunk ids derive from metadata id", func(t *testing.T) {
		c := New(WithChunkSize(80), WithChunkOverlap(10))

		text := strings.Repeat("Long text about the coastline. ", 10)
		chunks, err := c.Split(text, map[string]any{"id": "danang"})
		assert.NoError(t, err)
		for i, chunk := range chunks {
			assert.Equal(t, "danang", strings.SplitN(chunk.ID, "_", 2)[0])
			assert.True(t, strings.HasSuffix(chunk.ID, "_"+strconv.Itoa(i)))
		}
	})

	t.Run("missing id gets generated ids", func(t *testing.T) {
		c := New()
		chunks, err := c.Split("some text", nil)
		assert.NoError(t, err)
		assert.Len(t, chunks, 1)
		assert.NotEmpty(t, chunks[0].ID)
	})

	t.Run("previews bounded", func(t *testing.T) {
		c := New(WithChunkSize(1000), WithChunkOverlap(0))
		chunks, err := c.Split(strings.Repeat("x", 500), map[string]any{"id": "p"})
		assert.NoError(t, err)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk.Preview), PreviewLen)
			assert.True(t, strings.HasPrefix(chunk.Text, chunk.Preview))
		}
	})
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))

	long := strings.Repeat("a", PreviewLen+50)
	assert.Len(t, Preview(long), PreviewLen)
}
