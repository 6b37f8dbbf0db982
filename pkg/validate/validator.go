// Package validate checks extracted intents against table schemas before
// any query is built. Validation accumulates every problem it finds rather
// than stopping at the first, so the caller sees the full list at once.
package validate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/intent"
	"github.com/orza-hq/orza-engine/pkg/logging"
	"github.com/orza-hq/orza-engine/pkg/models"
	"github.com/orza-hq/orza-engine/pkg/schema"
)

// Validator validates intents against the schema registry.
type Validator interface {
	Validate(ctx context.Context, in *models.Intent) *models.ValidationResult
}

type validator struct {
	registry *schema.Registry
	logger   *zap.Logger
}

// NewValidator creates a validator backed by the given schema registry.
func NewValidator(registry *schema.Registry, logger *zap.Logger) Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &validator{registry: registry, logger: logger}
}

// Validate checks an intent and returns the full list of problems found.
// Kind resolution and schema resolution are hard failures that short-
// circuit; everything after that accumulates.
func (v *validator) Validate(ctx context.Context, in *models.Intent) *models.ValidationResult {
	if in == nil || in.Kind == "" {
		return &models.ValidationResult{Valid: false, Errors: []string{"Intent is required"}}
	}

	binding, ok := intent.Resolve(in.Kind)
	if !ok {
		return &models.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("Unsupported intent: %s", in.Kind)},
		}
	}

	tableSchema, err := v.registry.Resolve(ctx, binding.Table)
	if err != nil {
		v.logger.Error("Schema resolution failed during validation",
			zap.String("intent", in.Kind),
			zap.String("table", binding.Table),
			zap.String("error", logging.SanitizeError(err)))
		return &models.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("Schema not found for table %s", binding.Table)},
		}
	}

	var errs []string
	errs = append(errs, v.validateFilters(in.Parameters.Filters, tableSchema)...)
	errs = append(errs, validateSort(in.Parameters.Sort, tableSchema)...)
	errs = append(errs, validateFields(in.Parameters.Fields, tableSchema)...)
	errs = append(errs, validatePagination(in.Parameters.Limit, in.Parameters.Offset)...)

	if len(errs) > 0 {
		v.logger.Info("Intent failed validation",
			zap.String("intent", in.Kind),
			zap.String("table", binding.Table),
			zap.Int("filter_count", len(in.Parameters.Filters)),
			zap.Int("error_count", len(errs)))
	}

	return &models.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
		Schema: tableSchema,
	}
}

// validateFilters checks every filter, continuing past individual failures.
func (v *validator) validateFilters(filters []models.Filter, ts *models.TableSchema) []string {
	var errs []string
	for i, f := range filters {
		if f.Field == "" || f.Operator == "" {
			errs = append(errs, fmt.Sprintf("Filter at index %d is missing required properties", i))
			continue
		}

		column, ok := ts.Columns[f.Field]
		if !ok {
			errs = append(errs, fmt.Sprintf("Field '%s' in filter at index %d does not exist in table %s", f.Field, i, ts.Table))
			continue
		}

		if !f.Operator.IsValid() {
			errs = append(errs, fmt.Sprintf("Operator '%s' in filter at index %d is not supported", f.Operator, i))
			continue
		}

		// A filter with no value at all (as opposed to an explicit null)
		// is incomplete and ignored, not an error.
		if !f.HasValue {
			continue
		}

		if result := CheckValueForInjection(f.Field, f.Value); result != nil {
			v.logger.Warn("Suspected SQL injection pattern in filter value",
				zap.String("table", ts.Table),
				zap.String("field", result.Field),
				zap.String("fingerprint", result.Fingerprint))
			errs = append(errs, fmt.Sprintf("Value for field '%s' in filter at index %d contains a disallowed pattern", f.Field, i))
			continue
		}

		if !valueMatchesType(column, f.Value, f.Operator) {
			errs = append(errs, fmt.Sprintf("Value for field '%s' in filter at index %d is not valid for type %s", f.Field, i, column.Type))
		}
	}
	return errs
}

func validateSort(sort *models.Sort, ts *models.TableSchema) []string {
	if sort == nil || sort.Field == "" {
		return nil
	}

	var errs []string
	if !ts.HasColumn(sort.Field) {
		errs = append(errs, fmt.Sprintf("Sort field '%s' does not exist in table %s", sort.Field, ts.Table))
	}
	if sort.Direction != "" {
		switch sort.Direction.Normalize() {
		case models.SortAsc, models.SortDesc:
		default:
			errs = append(errs, fmt.Sprintf("Sort direction '%s' is not valid. Use 'asc' or 'desc'", sort.Direction))
		}
	}
	return errs
}

func validateFields(fields []string, ts *models.TableSchema) []string {
	var errs []string
	for _, field := range fields {
		if !ts.HasColumn(field) {
			errs = append(errs, fmt.Sprintf("Field '%s' does not exist in table %s", field, ts.Table))
		}
	}
	return errs
}

func validatePagination(limit, offset *int) []string {
	var errs []string
	if limit != nil && *limit < 0 {
		errs = append(errs, "Limit must be a non-negative number")
	}
	if offset != nil && *offset < 0 {
		errs = append(errs, "Offset must be a non-negative number")
	}
	return errs
}

// valueMatchesType checks a filter value against the column's type bucket.
// Null is valid only for nullable columns. For in/not_in the value must be
// a collection whose every element matches the type.
func valueMatchesType(column models.Column, value any, op models.Operator) bool {
	if value == nil {
		return column.Nullable
	}

	if op == models.OpIn || op == models.OpNotIn {
		elems, ok := value.([]any)
		if !ok {
			return false
		}
		for _, elem := range elems {
			if elem == nil {
				if !column.Nullable {
					return false
				}
				continue
			}
			if !scalarMatchesType(column.Type, elem) {
				return false
			}
		}
		return true
	}

	return scalarMatchesType(column.Type, value)
}

func scalarMatchesType(t models.ColumnType, value any) bool {
	switch t {
	case models.TypeUUID:
		s, ok := value.(string)
		if !ok || len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil

	case models.TypeInteger:
		switch v := value.(type) {
		case float64:
			return v == float64(int64(v))
		case int, int32, int64:
			return true
		case string:
			_, err := strconv.ParseInt(v, 10, 64)
			return err == nil
		}
		return false

	case models.TypeNumeric:
		switch v := value.(type) {
		case float64, int, int32, int64:
			return true
		case string:
			_, err := strconv.ParseFloat(v, 64)
			return err == nil
		}
		return false

	case models.TypeBoolean:
		switch v := value.(type) {
		case bool:
			return true
		case string:
			return v == "true" || v == "false"
		}
		return false

	case models.TypeTimestamp:
		s, ok := value.(string)
		if !ok {
			return false
		}
		return parseTimestamp(s)

	case models.TypeText:
		_, ok := value.(string)
		return ok

	case models.TypeJSON:
		// Deep JSON validation is out of scope.
		return true

	default:
		// Unknown catalog types are permissive.
		return true
	}
}

// timestampLayouts are the accepted textual timestamp forms, most specific
// first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
