package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voyago/tripgraph/assistant"
	"github.com/voyago/tripgraph/log"
	"github.com/voyago/tripgraph/travel"
)

// fixedAnswerer replies with a canned response.
type fixedAnswerer struct {
	lastQuery string
}

func (a *fixedAnswerer) Answer(ctx context.Context, query string) assistant.Response {
	a.lastQuery = query
	return assistant.Response{
		Query:     query,
		Intent:    travel.IntentGeneral,
		Answer:    "canned answer",
		Summary:   "canned summary",
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestServer() (*Server, *fixedAnswerer) {
	answerer := &fixedAnswerer{}
	return New(":0", answerer, &log.NoOpLogger{}), answerer
}

func TestHandleChat(t *testing.T) {
	t.Run("answers a valid query", func(t *testing.T) {
		srv, answerer := newTestServer()

		req := httptest.NewRequest(http.MethodPost, "/chat",
			strings.NewReader(`{"query":"3 days in Hanoi"}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp ChatResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "3 days in Hanoi", resp.Query)
		assert.Equal(t, "canned answer", resp.Answer)
		assert.Equal(t, "canned summary", resp.Summary)
		assert.False(t, resp.Timestamp.IsZero())
		assert.Equal(t, "3 days in Hanoi", answerer.lastQuery)
	})

	t.Run("rejects non-POST", func(t *testing.T) {
		srv, _ := newTestServer()

		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		srv, _ := newTestServer()

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ChatResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})

	t.Run("rejects blank query", func(t *testing.T) {
		srv, _ := newTestServer()

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"   "}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "tripgraph", body["service"])
}
