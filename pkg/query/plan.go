// Package query compiles validated intents into abstract, parameterized
// query plans and executes them against the data store. Plan construction
// is pure and testable without a store; execution happens in one place.
package query

import (
	"fmt"
	"strings"

	"github.com/orza-hq/orza-engine/pkg/apperrors"
	"github.com/orza-hq/orza-engine/pkg/intent"
	"github.com/orza-hq/orza-engine/pkg/models"
)

const (
	// DefaultLimit applies when a select intent carries no limit.
	DefaultLimit = 10
	// MaxLimit is the hard ceiling for any select window.
	MaxLimit = 100
)

// BuildPlan deterministically turns a validated intent into a query plan.
// Returned warnings describe filters that were skipped; with a validated
// intent the list is empty.
func BuildPlan(in *models.Intent, ts *models.TableSchema) (*models.QueryPlan, []string, error) {
	binding, ok := intent.Resolve(in.Kind)
	if !ok {
		return nil, nil, fmt.Errorf("intent %q: %w", in.Kind, apperrors.ErrUnsupportedIntent)
	}

	plan := &models.QueryPlan{
		Table: binding.Table,
		Class: binding.Class,
	}

	var warnings []string
	for _, f := range in.Parameters.Filters {
		pred, skip, warning := translateFilter(binding.Table, f)
		if warning != "" {
			warnings = append(warnings, warning)
		}
		if skip {
			continue
		}
		plan.Predicates = append(plan.Predicates, pred)
	}

	switch binding.Class {
	case models.ClassCount:
		// Count materializes primary-key values and measures the set size,
		// keeping operator semantics identical to the select path.
		plan.Columns = []string{ts.PrimaryKey()}

	case models.ClassSingle:
		plan.Columns = in.Parameters.Fields
		plan.Sort = normalizeSort(in.Parameters.Sort)
		plan.Limit = 1
		plan.Offset = 0

	case models.ClassSelect:
		plan.Columns = in.Parameters.Fields
		plan.Sort = normalizeSort(in.Parameters.Sort)
		plan.Limit = clampLimit(in.Parameters.Limit)
		plan.Offset = clampOffset(in.Parameters.Offset)
	}

	return plan, warnings, nil
}

// clampLimit applies the default and the [1, MaxLimit] window.
func clampLimit(limit *int) int {
	if limit == nil {
		return DefaultLimit
	}
	l := *limit
	if l < 1 {
		return 1
	}
	if l > MaxLimit {
		return MaxLimit
	}
	return l
}

func clampOffset(offset *int) int {
	if offset == nil || *offset < 0 {
		return 0
	}
	return *offset
}

func normalizeSort(s *models.Sort) *models.Sort {
	if s == nil || s.Field == "" {
		return nil
	}
	direction := models.SortAsc
	if s.Direction.Normalize() == models.SortDesc {
		direction = models.SortDesc
	}
	return &models.Sort{Field: s.Field, Direction: direction}
}

// temporalColumn reports whether a column name suggests a timestamp.
// Null comparisons against these translate to IS NULL / IS NOT NULL, and
// range operators skip null values entirely.
func temporalColumn(field string) bool {
	return strings.Contains(field, "_at") || strings.Contains(field, "_date")
}

// translateFilter maps one filter onto its predicate. skip is true when the
// filter produces no predicate; warning is non-empty only for conditions
// validation should have excluded.
func translateFilter(table string, f models.Filter) (pred models.Predicate, skip bool, warning string) {
	if f.Field == "" || f.Operator == "" || !f.HasValue {
		return models.Predicate{}, true, ""
	}

	switch f.Operator {
	case models.OpEq:
		if f.Value == nil && temporalColumn(f.Field) {
			return models.Predicate{Column: f.Field, Kind: models.PredIsNull}, false, ""
		}
		return models.Predicate{Column: f.Field, Kind: models.PredEq, Value: f.Value}, false, ""

	case models.OpNeq:
		if f.Value == nil && temporalColumn(f.Field) {
			return models.Predicate{Column: f.Field, Kind: models.PredIsNotNull}, false, ""
		}
		return models.Predicate{Column: f.Field, Kind: models.PredNeq, Value: f.Value}, false, ""

	case models.OpGt, models.OpGte, models.OpLt, models.OpLte:
		if f.Value == nil && temporalColumn(f.Field) {
			// Ordering against null is undefined; drop the predicate.
			return models.Predicate{}, true, ""
		}
		kinds := map[models.Operator]models.PredicateKind{
			models.OpGt:  models.PredGt,
			models.OpGte: models.PredGte,
			models.OpLt:  models.PredLt,
			models.OpLte: models.PredLte,
		}
		return models.Predicate{Column: f.Field, Kind: kinds[f.Operator], Value: f.Value}, false, ""

	case models.OpContains:
		// Tag containment on candidates is JSONB array membership, not a
		// substring match. A narrow business rule, kept explicit.
		if table == "candidates" && f.Field == "tags_json" {
			return models.Predicate{Column: f.Field, Kind: models.PredJSONContains, Value: f.Value}, false, ""
		}
		return models.Predicate{Column: f.Field, Kind: models.PredILike, Value: "%" + stringValue(f.Value) + "%"}, false, ""

	case models.OpStartsWith:
		return models.Predicate{Column: f.Field, Kind: models.PredILike, Value: stringValue(f.Value) + "%"}, false, ""

	case models.OpEndsWith:
		return models.Predicate{Column: f.Field, Kind: models.PredILike, Value: "%" + stringValue(f.Value)}, false, ""

	case models.OpIn:
		return models.Predicate{Column: f.Field, Kind: models.PredIn, Value: f.Value}, false, ""

	case models.OpNotIn:
		return models.Predicate{Column: f.Field, Kind: models.PredNotIn, Value: f.Value}, false, ""

	default:
		// Validation enforces the closed operator set; this path exists
		// for defense only.
		return models.Predicate{}, true, fmt.Sprintf("skipping filter with unsupported operator %q on field %q", f.Operator, f.Field)
	}
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
