// Package embed computes text embeddings through a provider and memoizes
// them in a key-value cache, so identical text is only ever sent to the
// provider once.
package embed

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/voyago/tripgraph/embed/cache"
	"github.com/voyago/tripgraph/log"
)

// DefaultBatchSize bounds how many cache misses are sent to the provider in
// one request.
const DefaultBatchSize = 100

// CachedEmbedder wraps a Provider with a cache.Store. It satisfies both the
// local travel.Embedder interface and langchaingo's embeddings.Embedder, so
// vector stores from that ecosystem can embed through the cache too.
//
// Concurrent misses for the same text may each reach the provider; the
// result is idempotent, so whichever write lands last is equivalent.
type CachedEmbedder struct {
	provider  Provider
	store     cache.Store
	batchSize int
	retry     *RetryConfig
	logger    log.Logger
}

var _ embeddings.Embedder = (*CachedEmbedder)(nil)

// Option configures a CachedEmbedder.
type Option func(*CachedEmbedder)

// WithBatchSize sets the maximum number of texts per provider call.
func WithBatchSize(n int) Option {
	return func(e *CachedEmbedder) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithRetryConfig sets the provider retry policy.
func WithRetryConfig(config *RetryConfig) Option {
	return func(e *CachedEmbedder) {
		e.retry = config
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(e *CachedEmbedder) {
		e.logger = logger
	}
}

// NewCachedEmbedder creates a CachedEmbedder over the given provider and
// cache store.
func NewCachedEmbedder(provider Provider, store cache.Store, opts ...Option) *CachedEmbedder {
	e := &CachedEmbedder{
		provider:  provider,
		store:     store,
		batchSize: DefaultBatchSize,
		retry:     DefaultRetryConfig(),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EmbedQuery returns the embedding for a single text, computing and caching
// it on a miss.
func (e *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedDocuments returns embeddings for texts in input order. Cache hits are
// served locally; misses are batched to the provider (at most batchSize per
// call) and written back. Each batch is retried with backoff and fails
// independently: a batch that still fails is skipped while the remaining
// batches proceed, and the call returns the vectors it did compute together
// with the joined batch errors. Succeeded batches stay cached, so a repeated
// call only recomputes the failed portion.
func (e *CachedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missIdx []int
	for i, text := range texts {
		vec, found, err := e.store.Get(ctx, cache.Key(text))
		if err != nil {
			return nil, fmt.Errorf("cache lookup: %w", err)
		}
		if found {
			vectors[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
	}

	if len(missIdx) == 0 {
		return vectors, nil
	}
	e.logger.Debug("embedding %d/%d texts (cache misses)", len(missIdx), len(texts))

	var batchErrs []error
	for start := 0; start < len(missIdx); start += e.batchSize {
		end := min(start+e.batchSize, len(missIdx))
		batch := missIdx[start:end]

		batchTexts := make([]string, len(batch))
		for j, i := range batch {
			batchTexts[j] = texts[i]
		}

		var computed [][]float32
		err := withRetry(ctx, e.retry, func() error {
			var callErr error
			computed, callErr = e.provider.Embed(ctx, batchTexts)
			return callErr
		})
		if err != nil {
			e.logger.Warn("embed batch of %d texts failed: %v", len(batch), err)
			batchErrs = append(batchErrs, fmt.Errorf("embed batch of %d texts: %w", len(batch), err))
			continue
		}

		for j, i := range batch {
			vectors[i] = computed[j]
			if putErr := e.store.Put(ctx, cache.Key(texts[i]), computed[j]); putErr != nil {
				// A failed cache write costs a recomputation later, not
				// correctness.
				e.logger.Warn("cache write failed: %v", putErr)
			}
		}
	}
	if len(batchErrs) > 0 {
		return vectors, errors.Join(batchErrs...)
	}

	return vectors, nil
}

// Clear empties the underlying cache store.
func (e *CachedEmbedder) Clear(ctx context.Context) error {
	return e.store.Clear(ctx)
}
