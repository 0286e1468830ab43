package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHints(t *testing.T) {
	t.Run("country by name", func(t *testing.T) {
		h := ExtractHints("3 days in Vietnam")
		assert.Equal(t, "Vietnam", h.Country)
		assert.Empty(t, h.City)
	})

	t.Run("city implies country", func(t *testing.T) {
		h := ExtractHints("best restaurants in Paris")
		assert.Equal(t, "Paris", h.City)
		assert.Equal(t, "France", h.Country)
		assert.Equal(t, "restaurant", h.Type)
	})

	t.Run("explicit country wins over city mapping", func(t *testing.T) {
		h := ExtractHints("from Hanoi , onward to Thailand")
		assert.Equal(t, "Thailand", h.Country)
		assert.Equal(t, "Hanoi", h.City)
	})

	t.Run("multiword city", func(t *testing.T) {
		h := ExtractHints("beaches near Da Nang")
		assert.Equal(t, "Da Nang", h.City)
		assert.Equal(t, "Vietnam", h.Country)
		assert.Equal(t, "beach", h.Type)
	})

	t.Run("type from plural keyword", func(t *testing.T) {
		h := ExtractHints("museums worth a visit")
		assert.Equal(t, "museum", h.Type)
	})

	t.Run("type needs whole word", func(t *testing.T) {
		h := ExtractHints("the beachfront promenade")
		assert.Empty(t, h.Type)
	})

	t.Run("food keyword maps to restaurant", func(t *testing.T) {
		h := ExtractHints("street food in Hanoi")
		assert.Equal(t, "restaurant", h.Type)
	})

	t.Run("two cities resolve to the same one every run", func(t *testing.T) {
		for range 20 {
			h := ExtractHints("should I fly to Paris or Rome")
			assert.Equal(t, "Paris", h.City)
			assert.Equal(t, "France", h.Country)
		}
	})

	t.Run("two types resolve to the same one every run", func(t *testing.T) {
		for range 20 {
			h := ExtractHints("restaurants and bars in Lisbon")
			assert.Equal(t, "bar", h.Type)
		}
	})

	t.Run("no hints", func(t *testing.T) {
		h := ExtractHints("somewhere warm and quiet")
		assert.Equal(t, Hints{}, h)
	})

	t.Run("case insensitive", func(t *testing.T) {
		h := ExtractHints("BEST TEMPLES IN KYOTO")
		assert.Equal(t, "Japan", h.Country)
		assert.Equal(t, "temple", h.Type)
	})
}
