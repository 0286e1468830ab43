// Package fusion merges graph and vector retrieval results into one
// bounded, reranked context for prompt construction. Items appearing in
// both sources get a fixed score boost (the graph-connected preference);
// ordering is otherwise stable, preserving retrieval order on ties.
package fusion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/voyago/tripgraph/travel"
)

// Defaults for the fused context bounds.
const (
	DefaultMaxGraph  = 5
	DefaultMaxVector = 3
	DefaultBoost     = 0.15
)

// Options bounds and weights the fusion step.
type Options struct {
	MaxGraph  int     // max graph items in the context
	MaxVector int     // max vector items in the context
	Boost     float64 // added to items present in both sources
}

// DefaultOptions returns the standard fusion bounds.
func DefaultOptions() Options {
	return Options{
		MaxGraph:  DefaultMaxGraph,
		MaxVector: DefaultMaxVector,
		Boost:     DefaultBoost,
	}
}

// Context is the fused, size-bounded retrieval context. Recomputed per
// request; never persisted.
type Context struct {
	Graph  []travel.GraphResult
	Vector []travel.VectorResult
	// Shared lists entity names found in both sources.
	Shared []string
}

// Empty reports whether both sides of the context are empty.
func (c *Context) Empty() bool {
	return len(c.Graph) == 0 && len(c.Vector) == 0
}

// Fuse merges the two ranked result lists. Either list may be empty; the
// context then carries the other alone.
func Fuse(graph []travel.GraphResult, vector []travel.VectorResult, opts Options) *Context {
	if opts.MaxGraph <= 0 {
		opts.MaxGraph = DefaultMaxGraph
	}
	if opts.MaxVector <= 0 {
		opts.MaxVector = DefaultMaxVector
	}
	if opts.Boost < 0 {
		opts.Boost = 0
	}

	graphKeys := make(map[string]string, len(graph)*2)
	for _, g := range graph {
		for _, k := range entityKeys(g.Location.ID, g.Location.Name) {
			graphKeys[k] = g.Location.Name
		}
	}
	vectorKeys := make(map[string]bool, len(vector)*2)
	for _, v := range vector {
		for _, k := range entityKeys(v.Chunk.MetaString("id"), v.Chunk.MetaString("name")) {
			vectorKeys[k] = true
		}
	}

	ctx := &Context{}
	sharedSeen := make(map[string]bool)

	boosted := make([]travel.GraphResult, len(graph))
	for i, g := range graph {
		boosted[i] = g
		if inBoth(vectorKeys, g.Location.ID, g.Location.Name) {
			boosted[i].Score += opts.Boost
			if !sharedSeen[strings.ToLower(g.Location.Name)] {
				sharedSeen[strings.ToLower(g.Location.Name)] = true
				ctx.Shared = append(ctx.Shared, g.Location.Name)
			}
		}
	}
	sort.SliceStable(boosted, func(i, j int) bool {
		return boosted[i].Score > boosted[j].Score
	})
	if len(boosted) > opts.MaxGraph {
		boosted = boosted[:opts.MaxGraph]
	}
	ctx.Graph = boosted

	reranked := make([]travel.VectorResult, len(vector))
	for i, v := range vector {
		reranked[i] = v
		if _, ok := graphKeys[strings.ToLower(v.Chunk.MetaString("id"))]; ok {
			reranked[i].Score += opts.Boost
		} else if name := strings.ToLower(v.Chunk.MetaString("name")); name != "" && graphKeys[name] != "" {
			reranked[i].Score += opts.Boost
		}
	}
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})
	if len(reranked) > opts.MaxVector {
		reranked = reranked[:opts.MaxVector]
	}
	ctx.Vector = reranked

	return ctx
}

// GraphText renders the graph items as structured lines for the prompt.
func (c *Context) GraphText() string {
	if len(c.Graph) == 0 {
		return "(no graph results)"
	}
	var b strings.Builder
	for _, g := range c.Graph {
		fmt.Fprintf(&b, "- %s\n", g.Location.Summary())
	}
	return strings.TrimRight(b.String(), "\n")
}

// VectorText renders the vector items as preview text plus source title.
func (c *Context) VectorText() string {
	if len(c.Vector) == 0 {
		return "(no document results)"
	}
	var b strings.Builder
	for _, v := range c.Vector {
		title := v.Chunk.MetaString("title")
		if title == "" {
			title = v.Chunk.MetaString("source")
		}
		if title == "" {
			title = v.Chunk.MetaString("name")
		}
		preview := v.Chunk.Preview
		if preview == "" {
			preview = v.Chunk.Text
		}
		if title != "" {
			fmt.Fprintf(&b, "- [%s] %s\n", title, preview)
		} else {
			fmt.Fprintf(&b, "- %s\n", preview)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func entityKeys(id, name string) []string {
	var keys []string
	if id != "" {
		keys = append(keys, strings.ToLower(id))
	}
	if name != "" {
		keys = append(keys, strings.ToLower(name))
	}
	return keys
}

func inBoth(vectorKeys map[string]bool, id, name string) bool {
	if id != "" && vectorKeys[strings.ToLower(id)] {
		return true
	}
	return name != "" && vectorKeys[strings.ToLower(name)]
}
