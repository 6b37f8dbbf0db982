// Package handlers exposes the HTTP API: structured intent execution,
// natural-language questions, and health checks.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/auth"
	"github.com/orza-hq/orza-engine/pkg/models"
	"github.com/orza-hq/orza-engine/pkg/services"
)

// QueryHandler serves structured intent queries.
type QueryHandler struct {
	pipeline services.PipelineService
	authMW   *auth.Middleware
	logger   *zap.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(pipeline services.PipelineService, authMW *auth.Middleware, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{pipeline: pipeline, authMW: authMW, logger: logger}
}

// RegisterRoutes registers the query routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.authMW.RequireAuth(h.Execute))
}

// Execute handles POST /api/query. The body is a structured intent; it is
// validated, scoped to the caller's organization, and executed.
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	organizationID, err := auth.RequireOrganizationID(r.Context())
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var in models.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON in request body")
		return
	}

	resp, status := h.pipeline.ExecuteIntent(r.Context(), &in, organizationID)
	if err := WriteJSON(w, status, resp); err != nil {
		h.logger.Error("Failed to encode query response", zap.Error(err))
	}
}
