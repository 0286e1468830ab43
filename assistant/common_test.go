package assistant

import (
	"context"
	"sync"

	"github.com/voyago/tripgraph/answer"
	"github.com/voyago/tripgraph/travel"
)

// fakeGraph serves canned graph results and records which lookup ran.
type fakeGraph struct {
	mu sync.Mutex

	searchResults   []travel.GraphResult
	countryResults  map[string][]travel.Location
	neighborResults []travel.GraphResult
	searchErr       error
	neighborErr     error

	searchCalls   []string
	countryCalls  []string
	neighborCalls [][]string
}

func (g *fakeGraph) Search(ctx context.Context, text string, limit int) ([]travel.GraphResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.searchCalls = append(g.searchCalls, text)
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	return g.searchResults, nil
}

func (g *fakeGraph) ByCountry(ctx context.Context, country string, limit int) ([]travel.Location, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.countryCalls = append(g.countryCalls, country)
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	return g.countryResults[country], nil
}

func (g *fakeGraph) Neighbors(ctx context.Context, ids []string, limit int) ([]travel.GraphResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.neighborCalls = append(g.neighborCalls, append([]string(nil), ids...))
	if g.neighborErr != nil {
		return nil, g.neighborErr
	}
	return g.neighborResults, nil
}

// fakeIndex serves canned vector results and records the filter it was
// called with.
type fakeIndex struct {
	mu sync.Mutex

	results []travel.VectorResult
	err     error

	lastQuery  string
	lastFilter map[string]any
}

func (x *fakeIndex) Search(ctx context.Context, query string, k int, filter map[string]any) ([]travel.VectorResult, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.lastQuery = query
	x.lastFilter = filter
	if x.err != nil {
		return nil, x.err
	}
	return x.results, nil
}

// echoLLM returns a fixed completion.
type echoLLM struct {
	text string
	err  error
}

func (l *echoLLM) Complete(ctx context.Context, req answer.CompletionRequest) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	return l.text, nil
}

// seqLLM returns queued completions in call order, then blanks.
type seqLLM struct {
	mu    sync.Mutex
	texts []string
	calls int
}

func (l *seqLLM) Complete(ctx context.Context, req answer.CompletionRequest) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.calls <= len(l.texts) {
		return l.texts[l.calls-1], nil
	}
	return "", nil
}
