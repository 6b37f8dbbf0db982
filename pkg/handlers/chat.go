package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/auth"
	"github.com/orza-hq/orza-engine/pkg/services"
)

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatHandler serves natural-language questions.
type ChatHandler struct {
	pipeline services.PipelineService
	authMW   *auth.Middleware
	logger   *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(pipeline services.PipelineService, authMW *auth.Middleware, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{pipeline: pipeline, authMW: authMW, logger: logger}
}

// RegisterRoutes registers the chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.authMW.RequireAuth(h.Ask))
}

// Ask handles POST /api/chat. The question is converted to an intent and
// run through the same pipeline as structured queries.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	organizationID, err := auth.RequireOrganizationID(r.Context())
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON in request body")
		return
	}

	resp, status := h.pipeline.Answer(r.Context(), req.Question, organizationID)
	if err := WriteJSON(w, status, resp); err != nil {
		h.logger.Error("Failed to encode chat response", zap.Error(err))
	}
}
