// Package response shapes execution results and failures into the uniform
// envelope returned by every endpoint.
package response

import (
	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/models"
)

// Formatter maps query results onto response envelopes.
type Formatter struct {
	logger *zap.Logger
}

// NewFormatter creates a response formatter.
func NewFormatter(logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{logger: logger}
}

// Format shapes an execution result by its query class: count, list, or
// single record. An unrecognized class passes data through unshaped with a
// warning; the compiler's class set makes that unreachable in practice.
func (f *Formatter) Format(result *models.ExecutionResult, in *models.Intent) *models.Response {
	if result == nil {
		zero := 0
		return &models.Response{
			Success: true,
			Data:    []map[string]any{},
			Meta:    &models.ResponseMeta{Count: &zero, Intent: in.Kind},
		}
	}

	elapsed := result.Metadata.ExecutionTimeMS

	switch result.Metadata.QueryType {
	case models.ClassCount:
		count, _ := result.Data.(models.CountData)
		return &models.Response{
			Success: true,
			Data:    models.CountData{Count: count.Count},
			Meta:    &models.ResponseMeta{Intent: in.Kind, ExecutionTimeMS: &elapsed},
		}

	case models.ClassSelect:
		rows, _ := result.Data.([]map[string]any)
		if rows == nil {
			rows = []map[string]any{}
		}
		n := len(rows)
		return &models.Response{
			Success: true,
			Data:    rows,
			Meta:    &models.ResponseMeta{Count: &n, Intent: in.Kind, ExecutionTimeMS: &elapsed},
		}

	case models.ClassSingle:
		return &models.Response{
			Success: true,
			Data:    result.Data,
			Meta:    &models.ResponseMeta{Intent: in.Kind, ExecutionTimeMS: &elapsed},
		}

	default:
		f.logger.Warn("Unknown query type for response formatting",
			zap.String("query_type", string(result.Metadata.QueryType)))
		return &models.Response{
			Success: true,
			Data:    result.Data,
			Meta:    &models.ResponseMeta{Intent: in.Kind, ExecutionTimeMS: &elapsed},
		}
	}
}

// FormatValidationError shapes a failed validation into an error envelope
// carrying every detected problem.
func (f *Formatter) FormatValidationError(result *models.ValidationResult, in *models.Intent) *models.Response {
	details := result.Errors
	if len(details) == 0 {
		details = []string{"Unknown validation error"}
	}
	kind := ""
	if in != nil {
		kind = in.Kind
	}
	return &models.Response{
		Success: false,
		Error: &models.ResponseError{
			Type:    "validation_error",
			Message: "Query validation failed",
			Details: details,
		},
		Meta: &models.ResponseMeta{Intent: kind},
	}
}

// FormatError shapes any other failure into a generic error envelope.
func (f *Formatter) FormatError(err error) *models.Response {
	message := "An unknown error occurred"
	if err != nil {
		message = err.Error()
	}
	return &models.Response{
		Success: false,
		Error: &models.ResponseError{
			Type:    "error",
			Message: message,
		},
	}
}
