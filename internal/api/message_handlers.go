package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/huang-jianhua/cow-coach/internal/dialogue"
	"github.com/huang-jianhua/cow-coach/internal/identity"
)

// maxMessageBodySize caps inbound message payloads (64KB).
const maxMessageBodySize = 64 << 10

// MessageRequest is the inbound dispatch payload.
type MessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse is the outbound dispatch payload. Handled reports whether
// the coach toolkit claimed the message; when false, downstream handlers in
// the hosting framework may still run.
type MessageResponse struct {
	Reply   string `json:"reply"`
	Handled bool   `json:"handled"`
}

// RegisterRoutes registers the coach API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/message", h.HandleMessage)
	r.Get("/api/goals", h.HandleListGoals)
	r.Get("/api/health", h.HandleHealth)
}

// HandleMessage dispatches one inbound text message for the requesting user.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req MessageRequest
	body := http.MaxBytesReader(w, r.Body, maxMessageBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			Error(w, http.StatusBadRequest, "empty request body")
			return
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		Error(w, http.StatusBadRequest, "text is required")
		return
	}

	reply, handled := h.coach.Handle(r.Context(), userID, req.Text)
	if !handled {
		if h.responder != nil {
			reply = h.responder.Reply(r.Context(), userID, req.Text)
		} else {
			reply = dialogue.FallbackReply
		}
	}

	JSON(w, http.StatusOK, MessageResponse{Reply: reply, Handled: handled})
}

// HandleListGoals returns the requesting user's goals, newest first.
func (h *Handler) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	goals, err := h.repo.ListGoals(r.Context(), userID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list goals")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

// HandleHealth reports storage connectivity.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		Error(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
