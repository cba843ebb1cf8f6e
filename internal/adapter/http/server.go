package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/oceanwatch-assistant/internal/assistant"
	"github.com/couchcryptid/oceanwatch-assistant/internal/chat"
	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/lexicon"
)

const maxBodyBytes = 64 << 10

// ChatService answers utterances within sessions.
type ChatService interface {
	Process(ctx context.Context, sessionID, text string) (chat.Turn, error)
	Reset(ctx context.Context, sessionID string) error
	Classify(text string) assistant.Classification
}

// Analytics summarizes labelled feed posts.
type Analytics interface {
	Summary(now time.Time) lexicon.Summary
}

// Server exposes the chat API along with health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	chat       ChatService
	analytics  Analytics
	logger     *slog.Logger
}

// NewServer creates an HTTP server. A nil analytics disables /v1/analytics.
func NewServer(addr string, svc ChatService, analytics Analytics, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		chat:      svc,
		analytics: analytics,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("POST /v1/classify", s.handleClassify)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleResetSession)
	mux.HandleFunc("GET /v1/analytics", s.handleAnalytics)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	turn, err := s.chat.Process(r.Context(), req.SessionID, req.Text)
	if err != nil {
		s.logger.Error("chat turn failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	assistant.Classification
	Analysis lexicon.Analysis `json:"analysis"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if domain.NewUtterance(req.Text).Empty() {
		writeError(w, http.StatusBadRequest, domain.ErrInputEmpty.Error())
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{
		Classification: s.chat.Classify(req.Text),
		Analysis:       lexicon.Analyze(req.Text),
	})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.chat.Reset(r.Context(), id); err != nil {
		s.logger.Error("session reset failed", "session_id", id, "error", err)
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, _ *http.Request) {
	if s.analytics == nil {
		writeError(w, http.StatusNotFound, "feed analytics disabled")
		return
	}
	writeJSON(w, http.StatusOK, s.analytics.Summary(domain.Now()))
}

// decodeJSON reads a bounded JSON body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

// Readiness combines checkers; the first failure wins.
type Readiness []sharedobs.ReadinessChecker

func (rs Readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range rs {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}
