package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/orza-hq/orza-engine/pkg/models"
)

// BuildSelectSQL renders a query plan as a parameterized SELECT statement.
// Identifiers are quoted and all predicate values travel as positional
// parameters; the rendered text never embeds a user-supplied value.
func BuildSelectSQL(plan *models.QueryPlan) (string, []any, error) {
	if plan == nil || plan.Table == "" {
		return "", nil, fmt.Errorf("query plan has no table")
	}

	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	sb.WriteString(renderColumns(plan.Columns))
	sb.WriteString(" FROM ")
	sb.WriteString(pgx.Identifier{plan.Table}.Sanitize())

	if len(plan.Predicates) > 0 {
		clauses := make([]string, 0, len(plan.Predicates))
		for _, p := range plan.Predicates {
			clause, arg, hasArg, err := renderPredicate(p, len(args)+1)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, clause)
			if hasArg {
				args = append(args, arg)
			}
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	if plan.Sort != nil {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(pgx.Identifier{plan.Sort.Field}.Sanitize())
		if plan.Sort.Direction == models.SortDesc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}

	// Count plans carry no window; the whole matching set materializes.
	if plan.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", plan.Limit))
	}
	if plan.Offset > 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", plan.Offset))
	}

	return sb.String(), args, nil
}

func renderColumns(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

// renderPredicate produces one WHERE clause. hasArg is false for the null
// checks, which carry no parameter.
func renderPredicate(p models.Predicate, placeholder int) (clause string, arg any, hasArg bool, err error) {
	col := pgx.Identifier{p.Column}.Sanitize()

	switch p.Kind {
	case models.PredEq:
		return fmt.Sprintf("%s = $%d", col, placeholder), p.Value, true, nil
	case models.PredNeq:
		return fmt.Sprintf("%s != $%d", col, placeholder), p.Value, true, nil
	case models.PredGt:
		return fmt.Sprintf("%s > $%d", col, placeholder), p.Value, true, nil
	case models.PredGte:
		return fmt.Sprintf("%s >= $%d", col, placeholder), p.Value, true, nil
	case models.PredLt:
		return fmt.Sprintf("%s < $%d", col, placeholder), p.Value, true, nil
	case models.PredLte:
		return fmt.Sprintf("%s <= $%d", col, placeholder), p.Value, true, nil
	case models.PredILike:
		return fmt.Sprintf("%s ILIKE $%d", col, placeholder), p.Value, true, nil
	case models.PredJSONContains:
		payload, jsonErr := json.Marshal([]any{p.Value})
		if jsonErr != nil {
			return "", nil, false, fmt.Errorf("encode jsonb containment value: %w", jsonErr)
		}
		return fmt.Sprintf("%s @> $%d::jsonb", col, placeholder), string(payload), true, nil
	case models.PredIn:
		return fmt.Sprintf("%s = ANY($%d)", col, placeholder), toSlice(p.Value), true, nil
	case models.PredNotIn:
		return fmt.Sprintf("%s != ALL($%d)", col, placeholder), toSlice(p.Value), true, nil
	case models.PredIsNull:
		return fmt.Sprintf("%s IS NULL", col), nil, false, nil
	case models.PredIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", col), nil, false, nil
	default:
		return "", nil, false, fmt.Errorf("unsupported predicate kind %q", p.Kind)
	}
}

func toSlice(value any) any {
	if s, ok := value.([]any); ok {
		return s
	}
	return []any{value}
}
