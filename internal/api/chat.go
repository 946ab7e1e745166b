package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/soorajkrishnan/idiary/internal/chat"
	"github.com/soorajkrishnan/idiary/internal/store"
)

// maxChatBodyBytes bounds the request body to keep a single message from
// exhausting memory.
const maxChatBodyBytes = 1 << 20

// ChatService runs a complete chat turn.
type ChatService interface {
	Send(ctx context.Context, sessionID, input string) (string, error)
}

// ModelInfo reports the active model configuration.
type ModelInfo interface {
	Describe() map[string]any
}

// chatHandler serves the chat and model endpoints.
type chatHandler struct {
	service   ChatService
	directory SessionDirectory
	model     ModelInfo
	logger    *slog.Logger
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// send handles POST /api/v1/chat. An empty or "new" session_id starts a
// fresh session; the response always carries the resolved id so the client
// can continue the conversation.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	body := http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request",
			"request body must be valid JSON", h.logger)
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "invalid_request",
			"message must not be empty", h.logger)
		return
	}

	sessionID := h.directory.Resolve(req.SessionID)

	reply, err := h.service.Send(r.Context(), sessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrModelUnavailable):
			writeError(w, http.StatusServiceUnavailable, "model_unavailable",
				"language model unavailable", h.logger)
		case errors.Is(err, store.ErrUnavailable):
			h.logger.Error("chat turn failed", "session_id", sessionID, "error", err)
			writeError(w, http.StatusServiceUnavailable, "storage_unavailable",
				"storage backend unavailable", h.logger)
		default:
			h.logger.Error("chat turn failed", "session_id", sessionID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error",
				"internal server error", h.logger)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"reply":      reply,
	}, h.logger)
}

// modelInfo handles GET /api/v1/model.
func (h *chatHandler) modelInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.model.Describe(), h.logger)
}
