// Package api provides HTTP handlers for the coach API.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/huang-jianhua/cow-coach/internal/store"
)

// Dispatcher handles an inbound message against the coach toolkit.
// handled=false means downstream processing should still run.
type Dispatcher interface {
	Handle(ctx context.Context, userID, text string) (reply string, handled bool)
}

// Responder produces conversational replies for messages the coach toolkit
// did not claim.
type Responder interface {
	Reply(ctx context.Context, userID, message string) string
}

// Handler provides common handler utilities and dependencies.
type Handler struct {
	repo      store.Repository
	coach     Dispatcher
	responder Responder
}

// NewHandler creates a new Handler. responder may be nil when no dialogue
// engine is configured.
func NewHandler(repo store.Repository, coach Dispatcher, responder Responder) *Handler {
	return &Handler{
		repo:      repo,
		coach:     coach,
		responder: responder,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
