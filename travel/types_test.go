package travel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationSummary(t *testing.T) {
	t.Run("full fields", func(t *testing.T) {
		loc := Location{
			Name: "Hanoi", Type: "city", Rating: 8.5,
			Description: "Capital of Vietnam",
		}
		assert.Equal(t, "Hanoi (city, rated 8.5): Capital of Vietnam", loc.Summary())
	})

	t.Run("no rating", func(t *testing.T) {
		loc := Location{Name: "Hue", Type: "city"}
		assert.Equal(t, "Hue (city)", loc.Summary())
	})

	t.Run("rating without type", func(t *testing.T) {
		loc := Location{Name: "Louvre", Rating: 9.2}
		assert.Equal(t, "Louvre (rated 9.2)", loc.Summary())
	})

	t.Run("name only", func(t *testing.T) {
		loc := Location{Name: "Somewhere"}
		assert.Equal(t, "Somewhere", loc.Summary())
	})
}

func TestChunkMetaString(t *testing.T) {
	chunk := Chunk{Metadata: map[string]any{
		"name":  "Hanoi",
		"chunk": 3,
	}}

	assert.Equal(t, "Hanoi", chunk.MetaString("name"))
	assert.Equal(t, "3", chunk.MetaString("chunk"))
	assert.Equal(t, "", chunk.MetaString("missing"))
	assert.Equal(t, "", Chunk{}.MetaString("name"))
}
