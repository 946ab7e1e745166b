package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/soorajkrishnan/idiary/internal/chat"
	"github.com/soorajkrishnan/idiary/internal/store"
)

// SessionDirectory resolves selections and lists known sessions.
type SessionDirectory interface {
	Resolve(selection string) string
	Options(ctx context.Context, active string) ([]string, error)
}

// SessionDeleter removes a session and its messages.
type SessionDeleter interface {
	DeleteSession(ctx context.Context, sessionID string) error
}

// MessageReader loads a session's transcript from the store.
type MessageReader interface {
	Load(ctx context.Context, sessionID string) ([]store.Message, error)
}

// SummaryService generates an on-demand session summary.
type SummaryService interface {
	Summarize(ctx context.Context, sessionID string) (string, error)
}

// sessionHandler serves the session management endpoints.
type sessionHandler struct {
	directory  SessionDirectory
	deleter    SessionDeleter
	messages   MessageReader
	summarizer SummaryService
	logger     *slog.Logger
}

// listSessions handles GET /api/v1/sessions.
// Response: {"options": ["new", "<id>", ...], "sessions": ["<id>", ...]}
func (h *sessionHandler) listSessions(w http.ResponseWriter, r *http.Request) {
	options, err := h.directory.Options(r.Context(), r.URL.Query().Get("active"))
	if err != nil {
		h.writeStoreError(w, "listing sessions", err)
		return
	}

	// options always starts with the new-chat sentinel.
	writeJSON(w, http.StatusOK, map[string]any{
		"options":  options,
		"sessions": options[1:],
	}, h.logger)
}

// createSession handles POST /api/v1/sessions. It mints a fresh session id;
// the session itself materializes on the first message.
func (h *sessionHandler) createSession(w http.ResponseWriter, r *http.Request) {
	id := h.directory.Resolve("")
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id}, h.logger)
}

// getMessages handles GET /api/v1/sessions/{id}/messages.
func (h *sessionHandler) getMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	msgs, err := h.messages.Load(r.Context(), sessionID)
	if err != nil {
		h.writeStoreError(w, "loading messages", err)
		return
	}

	type messageBody struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	out := make([]messageBody, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageBody{Type: m.Type, Content: m.Content})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"messages":   out,
	}, h.logger)
}

// deleteSession handles DELETE /api/v1/sessions/{id}. Idempotent: deleting
// an unknown session also returns 204.
func (h *sessionHandler) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	if err := h.deleter.DeleteSession(r.Context(), sessionID); err != nil {
		h.writeStoreError(w, "deleting session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// summarize handles POST /api/v1/sessions/{id}/summary.
func (h *sessionHandler) summarize(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	summary, err := h.summarizer.Summarize(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrNothingToSummarize):
			writeError(w, http.StatusNotFound, "empty_session",
				"session has no messages to summarize", h.logger)
		case errors.Is(err, chat.ErrModelUnavailable):
			writeError(w, http.StatusServiceUnavailable, "model_unavailable",
				"language model unavailable", h.logger)
		case errors.Is(err, chat.ErrSummarizationFailed):
			h.logger.Error("summarization failed", "session_id", sessionID, "error", err)
			writeError(w, http.StatusBadGateway, "summarization_failed",
				"could not generate summary", h.logger)
		default:
			h.writeStoreError(w, "summarizing session", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"summary":    summary,
	}, h.logger)
}

func (h *sessionHandler) writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrUnavailable) {
		h.logger.Error(op, "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable",
			"storage backend unavailable", h.logger)
		return
	}
	h.logger.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error",
		"internal server error", h.logger)
}
