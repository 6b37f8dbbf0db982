package models

// PredicateKind is the store-executable form of a filter operator, after
// null and pattern special cases have been resolved by the compiler.
type PredicateKind string

const (
	PredEq           PredicateKind = "eq"
	PredNeq          PredicateKind = "neq"
	PredGt           PredicateKind = "gt"
	PredGte          PredicateKind = "gte"
	PredLt           PredicateKind = "lt"
	PredLte          PredicateKind = "lte"
	PredILike        PredicateKind = "ilike"
	PredJSONContains PredicateKind = "jsonb_contains"
	PredIn           PredicateKind = "in"
	PredNotIn        PredicateKind = "not_in"
	PredIsNull       PredicateKind = "is_null"
	PredIsNotNull    PredicateKind = "is_not_null"
)

// Predicate is one compiled, parameterizable condition. Column is always a
// schema-validated name; Value is bound as a query parameter, never
// interpolated.
type Predicate struct {
	Column string        `json:"column"`
	Kind   PredicateKind `json:"kind"`
	Value  any           `json:"value,omitempty"`
}

// QueryPlan is the immutable, abstract description of one retrieval.
// Building a plan is a pure operation; executing it is the store's job.
type QueryPlan struct {
	Table      string      `json:"table"`
	Class      QueryClass  `json:"query_type"`
	Columns    []string    `json:"columns,omitempty"` // empty = all columns
	Predicates []Predicate `json:"predicates,omitempty"`
	Sort       *Sort       `json:"sort,omitempty"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}

// QueryMetadata describes how a query was executed.
type QueryMetadata struct {
	QueryType       QueryClass `json:"query_type"`
	Table           string     `json:"table"`
	ExecutionTimeMS int64      `json:"execution_time_ms"`
}

// ExecutionResult is the raw outcome of executing a query plan. Data is a
// []map[string]any for select, a map[string]any or nil for select_single,
// and a CountData for count.
type ExecutionResult struct {
	Data     any           `json:"data"`
	Metadata QueryMetadata `json:"metadata"`
}

// CountData wraps a count result.
type CountData struct {
	Count int `json:"count"`
}
