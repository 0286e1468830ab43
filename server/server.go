// Package server exposes the assistant over a minimal REST surface: a chat
// endpoint and a health check. No authentication, pagination, or streaming.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/voyago/tripgraph/assistant"
	"github.com/voyago/tripgraph/log"
)

// Answerer is the part of the assistant the server needs.
type Answerer interface {
	Answer(ctx context.Context, query string) assistant.Response
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	Summary   string    `json:"summary,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}

// Server is the HTTP frontend.
type Server struct {
	assistant Answerer
	logger    log.Logger
	http      *http.Server
}

// New creates a Server listening on addr.
func New(addr string, answerer Answerer, logger log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		assistant: answerer,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/health", s.handleHealth)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ChatResponse{
			Timestamp: time.Now().UTC(),
		})
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{
			Timestamp: time.Now().UTC(),
		})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, ChatResponse{
			Timestamp: time.Now().UTC(),
		})
		return
	}

	start := time.Now()
	resp := s.assistant.Answer(r.Context(), req.Query)
	s.logger.Info("chat query=%q intent=%s took=%s", req.Query, resp.Intent, time.Since(start).Round(time.Millisecond))

	writeJSON(w, http.StatusOK, ChatResponse{
		Query:     resp.Query,
		Answer:    resp.Answer,
		Summary:   resp.Summary,
		Timestamp: resp.Timestamp,
		Success:   true,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "tripgraph",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
