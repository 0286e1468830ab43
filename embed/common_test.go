package embed

import (
	"context"
	"fmt"
	"sync"
)

// fakeProvider returns deterministic vectors derived from text length and
// counts every call, so tests can assert how often the provider was reached.
type fakeProvider struct {
	mu        sync.Mutex
	calls     int
	sentTexts [][]string
	failNext  int // number of upcoming calls that return an error
}

func (p *fakeProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.sentTexts = append(p.sentTexts, append([]string(nil), texts...))

	if p.failNext > 0 {
		p.failNext--
		return nil, fmt.Errorf("provider unavailable")
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{float32(len(text)), 1}
	}
	return vectors, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// noRetry avoids backoff sleeps in tests.
func noRetry() *RetryConfig {
	return &RetryConfig{MaxAttempts: 1}
}
