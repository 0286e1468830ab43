// Package vector uploads document chunks to a hosted vector index and
// retrieves the nearest chunks for a query. The production index is
// Pinecone, reached through langchaingo's vector store client; an in-memory
// implementation with the same semantics backs tests and offline runs.
package vector

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/pinecone"

	"github.com/voyago/tripgraph/log"
	"github.com/voyago/tripgraph/travel"
)

// DefaultUpsertBatch is the number of chunks uploaded per request.
const DefaultUpsertBatch = 32

// upsertAttempts bounds how often a failing batch is retried before it is
// skipped and recorded.
const upsertAttempts = 2

// PineconeConfig configures the hosted index connection. The index itself
// (metric: cosine, dimension matching the embedding model) is managed out of
// band; Host is its endpoint.
type PineconeConfig struct {
	APIKey    string
	Host      string
	Namespace string
}

// UpsertReport records the outcome of a batched upload. Failed batches are
// skipped, not fatal; their chunk IDs are listed here.
type UpsertReport struct {
	Uploaded int
	Skipped  int
	Failed   []string
}

// Index wraps a langchaingo vector store with batched, retried uploads and
// score-ordered search.
type Index struct {
	store     vectorstores.VectorStore
	batchSize int
	logger    log.Logger
}

var _ travel.VectorIndex = (*Index)(nil)

// Option configures an Index.
type Option func(*Index)

// WithUpsertBatch sets the upload batch size.
func WithUpsertBatch(n int) Option {
	return func(x *Index) {
		if n > 0 {
			x.batchSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(x *Index) {
		x.logger = logger
	}
}

// NewPinecone creates an Index backed by a hosted Pinecone index. The
// embedder runs all embedding through the shared cache when a CachedEmbedder
// is passed.
func NewPinecone(cfg PineconeConfig, embedder embeddings.Embedder, opts ...Option) (*Index, error) {
	storeOpts := []pinecone.Option{
		pinecone.WithAPIKey(cfg.APIKey),
		pinecone.WithHost(cfg.Host),
		pinecone.WithEmbedder(embedder),
	}
	if cfg.Namespace != "" {
		storeOpts = append(storeOpts, pinecone.WithNameSpace(cfg.Namespace))
	}

	store, err := pinecone.New(storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("connect pinecone index: %w", err)
	}

	return NewFromStore(store, opts...), nil
}

// NewFromStore creates an Index over any langchaingo vector store.
func NewFromStore(store vectorstores.VectorStore, opts ...Option) *Index {
	x := &Index{
		store:     store,
		batchSize: DefaultUpsertBatch,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Upsert uploads chunks in batches. A failing batch is retried, then skipped
// with its chunk IDs recorded in the report; one bad batch never aborts the
// whole upload.
func (x *Index) Upsert(ctx context.Context, chunks []travel.Chunk) (*UpsertReport, error) {
	report := &UpsertReport{}

	for start := 0; start < len(chunks); start += x.batchSize {
		end := min(start+x.batchSize, len(chunks))
		batch := chunks[start:end]

		docs := make([]schema.Document, len(batch))
		for i, chunk := range batch {
			md := make(map[string]any, len(chunk.Metadata)+2)
			maps.Copy(md, chunk.Metadata)
			md["id"] = chunk.ID
			md["preview"] = chunk.Preview
			docs[i] = schema.Document{
				PageContent: chunk.Text,
				Metadata:    md,
			}
		}

		var err error
		for attempt := 1; attempt <= upsertAttempts; attempt++ {
			_, err = x.store.AddDocuments(ctx, docs)
			if err == nil {
				break
			}
			if attempt < upsertAttempts {
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
					return report, ctx.Err()
				}
			}
		}
		if err != nil {
			x.logger.Warn("skipping batch of %d chunks after %d attempts: %v", len(batch), upsertAttempts, err)
			report.Skipped += len(batch)
			for _, chunk := range batch {
				report.Failed = append(report.Failed, chunk.ID)
			}
			continue
		}

		report.Uploaded += len(batch)
		x.logger.Debug("uploaded batch of %d chunks", len(batch))
	}

	return report, nil
}

// Search returns up to k chunks ordered by descending similarity. The filter
// restricts by metadata fields (country, type, tags) before scoring. Zero
// matches is a valid, empty result.
func (x *Index) Search(ctx context.Context, query string, k int, filter map[string]any) ([]travel.VectorResult, error) {
	searchOpts := []vectorstores.Option{}
	if len(filter) > 0 {
		searchOpts = append(searchOpts, vectorstores.WithFilters(filter))
	}

	docs, err := x.store.SimilaritySearch(ctx, query, k, searchOpts...)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]travel.VectorResult, 0, len(docs))
	for _, doc := range docs {
		chunk := travel.Chunk{
			Text:     doc.PageContent,
			Metadata: doc.Metadata,
		}
		chunk.ID = chunk.MetaString("id")
		chunk.Preview = chunk.MetaString("preview")
		if chunk.Preview == "" {
			chunk.Preview = previewOf(doc.PageContent)
		}
		results = append(results, travel.VectorResult{
			Chunk: chunk,
			Score: float64(doc.Score),
		})
	}
	return results, nil
}

func previewOf(text string) string {
	const n = 200
	if len(text) <= n {
		return text
	}
	return text[:n]
}
