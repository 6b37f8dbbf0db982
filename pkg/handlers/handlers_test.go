package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/auth"
	"github.com/orza-hq/orza-engine/pkg/config"
	"github.com/orza-hq/orza-engine/pkg/models"
)

const testSecret = "handler-test-secret"

type stubPipeline struct {
	lastIntent   *models.Intent
	lastQuestion string
	lastOrg      string
	resp         *models.Response
	status       int
}

func (s *stubPipeline) ExecuteIntent(ctx context.Context, in *models.Intent, organizationID string) (*models.Response, int) {
	s.lastIntent = in
	s.lastOrg = organizationID
	return s.resp, s.status
}

func (s *stubPipeline) Answer(ctx context.Context, question, organizationID string) (*models.Response, int) {
	s.lastQuestion = question
	s.lastOrg = organizationID
	return s.resp, s.status
}

func testToken(t *testing.T, orgID string) string {
	t.Helper()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		OrganizationID: orgID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newMux(t *testing.T, pipeline *stubPipeline) *http.ServeMux {
	t.Helper()
	verifier, err := auth.NewVerifier(&auth.VerifierConfig{Secret: testSecret})
	require.NoError(t, err)
	mw := auth.NewMiddleware(verifier, zap.NewNop())

	mux := http.NewServeMux()
	NewQueryHandler(pipeline, mw, zap.NewNop()).RegisterRoutes(mux)
	NewChatHandler(pipeline, mw, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestQueryHandler_Execute(t *testing.T) {
	pipeline := &stubPipeline{
		resp:   &models.Response{Success: true, Data: models.CountData{Count: 4}},
		status: http.StatusOK,
	}
	mux := newMux(t, pipeline)

	body := `{"intent": "count_candidates", "parameters": {}}`
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken(t, "3f0e8a9e-2f4c-4b6e-9a3d-1c2b3a4d5e6f"))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	require.NotNil(t, pipeline.lastIntent)
	assert.Equal(t, "count_candidates", pipeline.lastIntent.Kind)
	assert.Equal(t, "3f0e8a9e-2f4c-4b6e-9a3d-1c2b3a4d5e6f", pipeline.lastOrg)
}

func TestQueryHandler_PropagatesPipelineStatus(t *testing.T) {
	pipeline := &stubPipeline{
		resp: &models.Response{
			Success: false,
			Error: &models.ResponseError{
				Type:    "validation_error",
				Message: "Query validation failed",
				Details: []string{"Unsupported intent: make_coffee"},
			},
		},
		status: http.StatusBadRequest,
	}
	mux := newMux(t, pipeline)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"intent": "make_coffee"}`))
	req.Header.Set("Authorization", "Bearer "+testToken(t, "3f0e8a9e-2f4c-4b6e-9a3d-1c2b3a4d5e6f"))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestQueryHandler_RejectsBadJSON(t *testing.T) {
	pipeline := &stubPipeline{resp: &models.Response{Success: true}, status: http.StatusOK}
	mux := newMux(t, pipeline)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+testToken(t, "3f0e8a9e-2f4c-4b6e-9a3d-1c2b3a4d5e6f"))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, pipeline.lastIntent)
}

func TestQueryHandler_RequiresAuth(t *testing.T) {
	pipeline := &stubPipeline{resp: &models.Response{Success: true}, status: http.StatusOK}
	mux := newMux(t, pipeline)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"intent": "count_candidates"}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, pipeline.lastIntent)
}

func TestChatHandler_Ask(t *testing.T) {
	pipeline := &stubPipeline{
		resp:   &models.Response{Success: true, Data: models.CountData{Count: 9}},
		status: http.StatusOK,
	}
	mux := newMux(t, pipeline)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question": "how many candidates?"}`))
	req.Header.Set("Authorization", "Bearer "+testToken(t, "3f0e8a9e-2f4c-4b6e-9a3d-1c2b3a4d5e6f"))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "how many candidates?", pipeline.lastQuestion)
}

func TestChatHandler_RequiresAuth(t *testing.T) {
	pipeline := &stubPipeline{resp: &models.Response{Success: true}, status: http.StatusOK}
	mux := newMux(t, pipeline)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question": "hi"}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, pipeline.lastQuestion)
}

func TestHealthHandler(t *testing.T) {
	cfg := &config.Config{Version: "1.2.3", Env: "test"}
	mux := http.NewServeMux()
	NewHealthHandler(cfg, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, rec.Body.String(), `"service":"orza-engine"`)
}
