// Package assistant wires the request pipeline: intent classification,
// concurrent graph and vector retrieval, neighbor enrichment of the
// vector matches, context fusion, and answer generation with a short
// context summary.
package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/voyago/tripgraph/answer"
	"github.com/voyago/tripgraph/fusion"
	"github.com/voyago/tripgraph/log"
	"github.com/voyago/tripgraph/router"
	"github.com/voyago/tripgraph/travel"
)

// Response is the assistant's reply to one query.
type Response struct {
	Query       string        `json:"query"`
	Intent      travel.Intent `json:"intent"`
	Answer      string        `json:"answer"`
	Summary     string        `json:"summary,omitempty"`
	GraphCount  int           `json:"graph_count"`
	VectorCount int           `json:"vector_count"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Options configures the retrieval stage.
type Options struct {
	GraphLimit   int
	VectorTopK   int
	Fusion       fusion.Options
	FetchTimeout time.Duration // per retrieval call
}

// DefaultOptions returns the standard pipeline bounds.
func DefaultOptions() Options {
	return Options{
		GraphLimit:   10,
		VectorTopK:   6,
		Fusion:       fusion.DefaultOptions(),
		FetchTimeout: 15 * time.Second,
	}
}

// Assistant answers travel queries over a graph store and a vector index.
type Assistant struct {
	graph     travel.GraphStore
	index     travel.VectorIndex
	generator *answer.Generator
	opts      Options
	logger    log.Logger
}

// New creates an Assistant.
func New(graph travel.GraphStore, index travel.VectorIndex, generator *answer.Generator, opts Options, logger log.Logger) *Assistant {
	if opts.GraphLimit <= 0 {
		opts.GraphLimit = 10
	}
	if opts.VectorTopK <= 0 {
		opts.VectorTopK = 6
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Assistant{
		graph:     graph,
		index:     index,
		generator: generator,
		opts:      opts,
		logger:    logger,
	}
}

// Answer runs the full pipeline for one query. Retrieval sources degrade
// independently: a failed or empty source leaves the other to carry the
// context, and generation itself falls back rather than erroring.
func (a *Assistant) Answer(ctx context.Context, query string) Response {
	intent := router.Classify(query)
	hints := ExtractHints(query)
	a.logger.Debug("query=%q intent=%s country=%q type=%q", query, intent, hints.Country, hints.Type)

	var (
		wg            sync.WaitGroup
		graphResults  []travel.GraphResult
		vectorResults []travel.VectorResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		graphResults = a.fetchGraph(ctx, query, hints)
	}()
	go func() {
		defer wg.Done()
		vectorResults = a.fetchVector(ctx, query, hints)
	}()
	wg.Wait()

	graphResults = a.enrichNeighbors(ctx, graphResults, vectorResults)

	fused := fusion.Fuse(graphResults, vectorResults, a.opts.Fusion)
	summary := a.generator.Summarize(ctx, fused)
	text := a.generator.Generate(ctx, query, intent, fused)

	return Response{
		Query:       query,
		Intent:      intent,
		Answer:      text,
		Summary:     summary,
		GraphCount:  len(fused.Graph),
		VectorCount: len(fused.Vector),
		Timestamp:   time.Now().UTC(),
	}
}

// fetchGraph retrieves locations. A country hint narrows the fetch to that
// country's locations, rating-ordered; otherwise the text search runs. A
// type hint filters the country results.
func (a *Assistant) fetchGraph(ctx context.Context, query string, hints Hints) []travel.GraphResult {
	fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
	defer cancel()

	if hints.Country != "" {
		locations, err := a.graph.ByCountry(fetchCtx, hints.Country, a.opts.GraphLimit)
		if err != nil {
			a.logger.Warn("graph country lookup failed: %v", err)
			return nil
		}

		results := make([]travel.GraphResult, 0, len(locations))
		for _, loc := range locations {
			if hints.Type != "" && !strings.EqualFold(loc.Type, hints.Type) {
				continue
			}
			// Ratings run 0-10 in the dataset; normalize so graph scores
			// stay comparable with vector similarities.
			results = append(results, travel.GraphResult{
				Location: loc,
				Score:    loc.Rating / 10,
			})
		}
		return results
	}

	results, err := a.graph.Search(fetchCtx, query, a.opts.GraphLimit)
	if err != nil {
		a.logger.Warn("graph search failed: %v", err)
		return nil
	}
	return results
}

// enrichNeighbors pulls locations connected to the vector-matched entities
// into the graph side, so related places surface even when the text search
// missed them. A failed lookup leaves the base results untouched.
func (a *Assistant) enrichNeighbors(ctx context.Context, graph []travel.GraphResult, vector []travel.VectorResult) []travel.GraphResult {
	if len(vector) == 0 {
		return graph
	}

	seen := make(map[string]bool, len(graph))
	for _, g := range graph {
		seen[g.Location.ID] = true
	}

	// Chunk IDs carry a chunk suffix; the source location ID lives in the
	// metadata.
	var ids []string
	matched := make(map[string]bool, len(vector))
	for _, v := range vector {
		id := v.Chunk.MetaString("id")
		if id == "" {
			id = v.Chunk.ID
		}
		if id == "" || matched[id] {
			continue
		}
		matched[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return graph
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
	defer cancel()

	neighbors, err := a.graph.Neighbors(fetchCtx, ids, a.opts.GraphLimit)
	if err != nil {
		a.logger.Warn("neighbor lookup failed: %v", err)
		return graph
	}
	for _, n := range neighbors {
		if n.Location.ID == "" || seen[n.Location.ID] || matched[n.Location.ID] {
			continue
		}
		seen[n.Location.ID] = true
		graph = append(graph, n)
	}
	return graph
}

// fetchVector retrieves chunks, filtered by the query hints.
func (a *Assistant) fetchVector(ctx context.Context, query string, hints Hints) []travel.VectorResult {
	fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
	defer cancel()

	filter := map[string]any{}
	if hints.Country != "" {
		filter["country"] = hints.Country
	}
	if hints.Type != "" {
		filter["type"] = hints.Type
	}

	results, err := a.index.Search(fetchCtx, query, a.opts.VectorTopK, filter)
	if err != nil {
		a.logger.Warn("vector search failed: %v", err)
		return nil
	}
	return results
}
