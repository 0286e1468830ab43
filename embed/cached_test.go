package embed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voyago/tripgraph/embed/cache"
	"github.com/voyago/tripgraph/log"
)

func TestCachedEmbedder_EmbedQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("second call served from cache", func(t *testing.T) {
		provider := &fakeProvider{}
		embedder := NewCachedEmbedder(provider, cache.NewMemoryStore())

		first, err := embedder.EmbedQuery(ctx, "best pho in Hanoi")
		assert.NoError(t, err)
		assert.Equal(t, 1, provider.callCount())

		second, err := embedder.EmbedQuery(ctx, "best pho in Hanoi")
		assert.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, provider.callCount(), "cache hit must not reach the provider")
	})

	t.Run("different text misses", func(t *testing.T) {
		provider := &fakeProvider{}
		embedder := NewCachedEmbedder(provider, cache.NewMemoryStore())

		_, err := embedder.EmbedQuery(ctx, "beaches in Da Nang")
		assert.NoError(t, err)
		_, err = embedder.EmbedQuery(ctx, "beaches in Da Nang ")
		assert.NoError(t, err)
		assert.Equal(t, 2, provider.callCount())
	})
}

func TestCachedEmbedder_EmbedDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves input order with mixed hits", func(t *testing.T) {
		provider := &fakeProvider{}
		store := cache.NewMemoryStore()
		embedder := NewCachedEmbedder(provider, store)

		// Warm the cache for one of three texts.
		_, err := embedder.EmbedQuery(ctx, "bb")
		assert.NoError(t, err)

		vectors, err := embedder.EmbedDocuments(ctx, []string{"a", "bb", "ccc"})
		assert.NoError(t, err)
		assert.Len(t, vectors, 3)
		assert.Equal(t, []float32{1, 1}, vectors[0])
		assert.Equal(t, []float32{2, 1}, vectors[1])
		assert.Equal(t, []float32{3, 1}, vectors[2])

		// One warming call, one call for the two misses.
		assert.Equal(t, 2, provider.callCount())
		assert.Equal(t, []string{"a", "ccc"}, provider.sentTexts[1])
	})

	t.Run("misses split into batches", func(t *testing.T) {
		provider := &fakeProvider{}
		embedder := NewCachedEmbedder(provider, cache.NewMemoryStore(), WithBatchSize(2))

		_, err := embedder.EmbedDocuments(ctx, []string{"a", "b", "c", "d", "e"})
		assert.NoError(t, err)
		assert.Equal(t, 3, provider.callCount())
		assert.Equal(t, []string{"a", "b"}, provider.sentTexts[0])
		assert.Equal(t, []string{"c", "d"}, provider.sentTexts[1])
		assert.Equal(t, []string{"e"}, provider.sentTexts[2])
	})

	t.Run("failed batch keeps earlier batches cached", func(t *testing.T) {
		provider := &fakeProvider{}
		store := cache.NewMemoryStore()
		embedder := NewCachedEmbedder(provider, store,
			WithBatchSize(2),
			WithRetryConfig(noRetry()),
		)

		ok, err := embedder.EmbedDocuments(ctx, []string{"a", "b"})
		assert.NoError(t, err)
		assert.Len(t, ok, 2)

		provider.mu.Lock()
		provider.failNext = 1
		provider.mu.Unlock()

		_, err = embedder.EmbedDocuments(ctx, []string{"a", "b", "c", "d"})
		assert.Error(t, err)

		// a and b were already cached; retrying only recomputes c and d.
		provider.mu.Lock()
		provider.failNext = 0
		provider.mu.Unlock()
		before := provider.callCount()

		vectors, err := embedder.EmbedDocuments(ctx, []string{"a", "b", "c", "d"})
		assert.NoError(t, err)
		assert.Len(t, vectors, 4)
		assert.Equal(t, before+1, provider.callCount())
	})

	t.Run("failed batch does not block later batches", func(t *testing.T) {
		provider := &fakeProvider{}
		store := cache.NewMemoryStore()
		embedder := NewCachedEmbedder(provider, store,
			WithBatchSize(2),
			WithRetryConfig(noRetry()),
			WithLogger(&log.NoOpLogger{}),
		)

		// Warm the first batch, then let the next provider call fail so only
		// the middle batch is lost.
		_, err := embedder.EmbedDocuments(ctx, []string{"a", "b"})
		assert.NoError(t, err)

		provider.mu.Lock()
		provider.failNext = 1
		provider.mu.Unlock()

		vectors, err := embedder.EmbedDocuments(ctx, []string{"a", "b", "c", "d", "e", "f"})
		assert.Error(t, err)
		assert.Len(t, vectors, 6)

		// The batch after the failed one was still sent and its vectors
		// returned.
		assert.Equal(t, []string{"e", "f"}, provider.sentTexts[len(provider.sentTexts)-1])
		assert.Equal(t, []float32{1, 1}, vectors[4])
		assert.Nil(t, vectors[2])
		assert.Nil(t, vectors[3])

		// e and f were cached alongside a and b; a retry only recomputes the
		// failed batch.
		before := provider.callCount()
		vectors, err = embedder.EmbedDocuments(ctx, []string{"a", "b", "c", "d", "e", "f"})
		assert.NoError(t, err)
		assert.Len(t, vectors, 6)
		assert.Equal(t, before+1, provider.callCount())
		assert.Equal(t, []string{"c", "d"}, provider.sentTexts[len(provider.sentTexts)-1])
	})

	t.Run("empty input", func(t *testing.T) {
		provider := &fakeProvider{}
		embedder := NewCachedEmbedder(provider, cache.NewMemoryStore())

		vectors, err := embedder.EmbedDocuments(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, vectors)
		assert.Equal(t, 0, provider.callCount())
	})
}

func TestCachedEmbedder_Clear(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{}
	store := cache.NewMemoryStore()
	embedder := NewCachedEmbedder(provider, store)

	_, err := embedder.EmbedQuery(ctx, "temples in Kyoto")
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	assert.NoError(t, embedder.Clear(ctx))
	assert.Equal(t, 0, store.Len())

	_, err = embedder.EmbedQuery(ctx, "temples in Kyoto")
	assert.NoError(t, err)
	assert.Equal(t, 2, provider.callCount())
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := withRetry(ctx, &RetryConfig{
			MaxAttempts:   3,
			InitialDelay:  time.Millisecond,
			MaxDelay:      time.Millisecond,
			BackoffFactor: 1,
		}, func() error {
			attempts++
			if attempts < 3 {
				return assert.AnError
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		attempts := 0
		err := withRetry(ctx, &RetryConfig{
			MaxAttempts:   2,
			InitialDelay:  time.Millisecond,
			MaxDelay:      time.Millisecond,
			BackoffFactor: 1,
		}, func() error {
			attempts++
			return assert.AnError
		})
		assert.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 2, attempts)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := withRetry(cancelled, DefaultRetryConfig(), func() error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
