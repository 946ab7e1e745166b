// Package api exposes the conversation subsystem over a JSON HTTP API.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger     *slog.Logger
	Chat       ChatService      // Required
	Model      ModelInfo        // Required
	Directory  SessionDirectory // Required
	Deleter    SessionDeleter   // Required
	Messages   MessageReader    // Required
	Summarizer SummaryService   // Required
	Pool       *pgxpool.Pool    // Optional: nil disables pool stats in /ready
	TrustProxy bool             // Trust X-Real-IP/X-Forwarded-For headers
	RateBurst  int              // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Chat == nil || cfg.Model == nil {
		return nil, errors.New("chat service and model are required")
	}
	if cfg.Directory == nil || cfg.Deleter == nil || cfg.Messages == nil || cfg.Summarizer == nil {
		return nil, errors.New("session directory, deleter, message reader and summarizer are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sh := &sessionHandler{
		directory:  cfg.Directory,
		deleter:    cfg.Deleter,
		messages:   cfg.Messages,
		summarizer: cfg.Summarizer,
		logger:     logger,
	}

	ch := &chatHandler{
		service:   cfg.Chat,
		directory: cfg.Directory,
		model:     cfg.Model,
		logger:    logger,
	}

	mux := http.NewServeMux()

	// Session management
	mux.HandleFunc("GET /api/v1/sessions", sh.listSessions)
	mux.HandleFunc("POST /api/v1/sessions", sh.createSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}/messages", sh.getMessages)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", sh.deleteSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/summary", sh.summarize)

	// Chat
	mux.HandleFunc("POST /api/v1/chat", ch.send)
	mux.HandleFunc("GET /api/v1/model", ch.modelInfo)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log
	// attributes.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Top-level mux keeps health probes outside the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health(logger))
	topMux.Handle("GET /ready", readiness(cfg.Pool, logger))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
