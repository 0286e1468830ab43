package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	store := NewRedisStore(RedisOptions{
		Addr: mr.Addr(),
	})
	defer store.Close()

	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		_, found, err := store.Get(ctx, Key("saigon"))
		assert.NoError(t, err)
		assert.False(t, found)

		vector := []float32{1.5, -2, 0.75}
		assert.NoError(t, store.Put(ctx, Key("saigon"), vector))

		got, found, err := store.Get(ctx, Key("saigon"))
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, vector, got)
	})

	t.Run("keys carry prefix", func(t *testing.T) {
		assert.NoError(t, store.Put(ctx, "abc", []float32{1}))
		assert.True(t, mr.Exists("tripgraph:embed:abc"))
	})

	t.Run("clear only touches prefixed keys", func(t *testing.T) {
		mr.Set("unrelated", "keep me")
		assert.NoError(t, store.Put(ctx, "k1", []float32{1}))
		assert.NoError(t, store.Put(ctx, "k2", []float32{2}))

		assert.NoError(t, store.Clear(ctx))

		_, found, err := store.Get(ctx, "k1")
		assert.NoError(t, err)
		assert.False(t, found)
		assert.True(t, mr.Exists("unrelated"))
	})
}
