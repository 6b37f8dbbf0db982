package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchemaNotFound    = errors.New("schema not found")
	ErrUnsupportedIntent = errors.New("unsupported intent")
	ErrNotAuthenticated  = errors.New("authentication required")
	ErrMissingOrgID      = errors.New("missing organization ID")
)

// ValidationError carries the full list of problems found while validating
// an intent. All problems are accumulated before the error is returned so
// the caller sees every issue at once.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// NewValidationError creates a ValidationError from the accumulated details.
func NewValidationError(details []string) *ValidationError {
	return &ValidationError{Details: details}
}

// QueryExecutionError indicates the data store rejected or failed a query.
// The underlying error message is preserved but store internals beyond the
// message string are not exposed.
type QueryExecutionError struct {
	Table string
	Err   error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query execution failed for table %s: %v", e.Table, e.Err)
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}
