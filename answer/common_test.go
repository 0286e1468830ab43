package answer

import (
	"context"
	"errors"
)

// scriptedLLM returns a fixed completion (or error) and captures the last
// request for inspection.
type scriptedLLM struct {
	text string
	err  error

	lastReq CompletionRequest
	calls   int
}

func (l *scriptedLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	l.calls++
	l.lastReq = req
	if l.err != nil {
		return "", l.err
	}
	return l.text, nil
}

var errModelDown = errors.New("model unavailable")
