// Package services orchestrates the question answering pipeline: intent
// extraction, validation, compilation, execution, and response shaping.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/apperrors"
	"github.com/orza-hq/orza-engine/pkg/logging"
	"github.com/orza-hq/orza-engine/pkg/models"
	"github.com/orza-hq/orza-engine/pkg/nlp"
	"github.com/orza-hq/orza-engine/pkg/query"
	"github.com/orza-hq/orza-engine/pkg/response"
	"github.com/orza-hq/orza-engine/pkg/validate"
)

// FailureRecorder persists unanswerable questions for later review.
type FailureRecorder interface {
	RecordFailure(ctx context.Context, organizationID, userMessage, queryJSON, failure string) error
}

// PipelineService answers recruiting questions scoped to one organization.
// Every path returns a complete response envelope together with the HTTP
// status it should be served with.
type PipelineService interface {
	// ExecuteIntent validates and runs an already-structured intent.
	ExecuteIntent(ctx context.Context, in *models.Intent, organizationID string) (*models.Response, int)
	// Answer extracts an intent from a natural-language question, then
	// executes it.
	Answer(ctx context.Context, question, organizationID string) (*models.Response, int)
}

type pipelineService struct {
	extractor nlp.Extractor
	validator validate.Validator
	compiler  query.Compiler
	formatter *response.Formatter
	failures  FailureRecorder
	logger    *zap.Logger
}

// NewPipelineService creates the pipeline orchestrator. extractor and
// failures may be nil; without an extractor Answer rejects all questions.
func NewPipelineService(
	extractor nlp.Extractor,
	validator validate.Validator,
	compiler query.Compiler,
	formatter *response.Formatter,
	failures FailureRecorder,
	logger *zap.Logger,
) PipelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pipelineService{
		extractor: extractor,
		validator: validator,
		compiler:  compiler,
		formatter: formatter,
		failures:  failures,
		logger:    logger,
	}
}

func (s *pipelineService) ExecuteIntent(ctx context.Context, in *models.Intent, organizationID string) (*models.Response, int) {
	if organizationID == "" {
		return s.formatter.FormatError(apperrors.ErrMissingOrgID), http.StatusUnauthorized
	}
	if in == nil {
		in = &models.Intent{}
	}

	scopeToOrganization(in, organizationID)

	result := s.validator.Validate(ctx, in)
	if !result.Valid {
		s.logger.Info("Intent rejected",
			zap.String("intent", in.Kind),
			zap.Strings("filters", logging.FilterSummary(in.Parameters.Filters)),
			zap.Strings("errors", result.Errors))
		return s.formatter.FormatValidationError(result, in), http.StatusBadRequest
	}

	execResult, err := s.compiler.CompileAndExecute(ctx, in, result.Schema)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnsupportedIntent) {
			return s.formatter.FormatValidationError(&models.ValidationResult{
				Valid:  false,
				Errors: []string{"Unsupported intent: " + in.Kind},
			}, in), http.StatusBadRequest
		}
		s.logger.Error("Query execution failed",
			zap.String("intent", in.Kind),
			zap.String("error", logging.SanitizeError(err)))
		return s.formatter.FormatError(err), http.StatusInternalServerError
	}

	return s.formatter.Format(execResult, in), http.StatusOK
}

func (s *pipelineService) Answer(ctx context.Context, question, organizationID string) (*models.Response, int) {
	if organizationID == "" {
		return s.formatter.FormatError(apperrors.ErrMissingOrgID), http.StatusUnauthorized
	}
	if strings.TrimSpace(question) == "" {
		return s.formatter.FormatValidationError(&models.ValidationResult{
			Valid:  false,
			Errors: []string{"Question is required"},
		}, nil), http.StatusBadRequest
	}
	if s.extractor == nil {
		return s.formatter.FormatError(errors.New("no language model configured")), http.StatusInternalServerError
	}

	in, err := s.extractor.ExtractIntent(ctx, question)
	if err != nil {
		s.logger.Error("Intent extraction failed",
			zap.String("error", logging.SanitizeError(err)))
		s.recordFailure(ctx, organizationID, question, nil, err.Error())
		return s.formatter.FormatError(errors.New("could not understand the question")), http.StatusInternalServerError
	}

	resp, status := s.ExecuteIntent(ctx, in, organizationID)
	if !resp.Success {
		failure := ""
		if resp.Error != nil {
			failure = resp.Error.Message
			if len(resp.Error.Details) > 0 {
				failure = failure + ": " + strings.Join(resp.Error.Details, "; ")
			}
		}
		s.recordFailure(ctx, organizationID, question, in, failure)
	}
	return resp, status
}

// scopeToOrganization pins the intent to one tenant. Any caller-supplied
// organization_id filters are discarded first so a crafted intent cannot
// widen its scope.
func scopeToOrganization(in *models.Intent, organizationID string) {
	filtered := in.Parameters.Filters[:0]
	for _, f := range in.Parameters.Filters {
		if f.Field == "organization_id" {
			continue
		}
		filtered = append(filtered, f)
	}
	in.Parameters.Filters = append(filtered, models.Filter{
		Field:    "organization_id",
		Operator: models.OpEq,
		Value:    organizationID,
		HasValue: true,
	})
}

func (s *pipelineService) recordFailure(ctx context.Context, organizationID, question string, in *models.Intent, failure string) {
	if s.failures == nil {
		return
	}
	queryJSON := ""
	if in != nil {
		if raw, err := json.Marshal(in); err == nil {
			queryJSON = string(raw)
		}
	}
	if err := s.failures.RecordFailure(ctx, organizationID, question, queryJSON, failure); err != nil {
		s.logger.Warn("Could not record query failure", zap.Error(err))
	}
}
