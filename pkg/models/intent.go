package models

import (
	"encoding/json"
	"strings"
)

// Operator is one of the fixed set of filter operators. Anything outside
// this set is rejected during validation and never reaches the compiler.
type Operator string

const (
	OpEq         Operator = "eq"
	OpNeq        Operator = "neq"
	OpGt         Operator = "gt"
	OpGte        Operator = "gte"
	OpLt         Operator = "lt"
	OpLte        Operator = "lte"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "starts_with"
	OpEndsWith   Operator = "ends_with"
	OpIn         Operator = "in"
	OpNotIn      Operator = "not_in"
)

// ValidOperators contains every supported filter operator.
var ValidOperators = []Operator{
	OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte,
	OpContains, OpStartsWith, OpEndsWith, OpIn, OpNotIn,
}

// IsValid reports whether the operator is in the supported set.
func (op Operator) IsValid() bool {
	for _, v := range ValidOperators {
		if op == v {
			return true
		}
	}
	return false
}

// QueryClass determines pagination behavior and result shape.
type QueryClass string

const (
	ClassSelect QueryClass = "select"
	ClassSingle QueryClass = "select_single"
	ClassCount  QueryClass = "count"
)

// Filter is one predicate request against a single column.
//
// HasValue distinguishes a filter whose value key was absent entirely from
// one whose value is an explicit null. Filters without a value are skipped
// silently during validation and compilation; explicit nulls are validated
// against the column's nullability.
type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
	HasValue bool     `json:"-"`
}

// UnmarshalJSON decodes a filter while recording whether the "value" key
// was present at all.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["field"]; ok {
		if err := json.Unmarshal(v, &f.Field); err != nil {
			return err
		}
	}
	if v, ok := raw["operator"]; ok {
		var op string
		if err := json.Unmarshal(v, &op); err != nil {
			return err
		}
		f.Operator = Operator(op)
	}
	if v, ok := raw["value"]; ok {
		f.HasValue = true
		if err := json.Unmarshal(v, &f.Value); err != nil {
			return err
		}
	}
	return nil
}

// SortDirection is a sort order token. Case-insensitive on input; a missing
// direction defaults to ascending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Normalize lowercases the direction token.
func (d SortDirection) Normalize() SortDirection {
	return SortDirection(strings.ToLower(string(d)))
}

// Sort names a column and direction to order results by.
type Sort struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction,omitempty"`
}

// IntentParameters hold the shape options extracted alongside the intent
// kind. Limit and Offset are pointers so "absent" is distinguishable from
// zero; defaults and clamping are applied at compile time.
type IntentParameters struct {
	Filters []Filter `json:"filters,omitempty"`
	Limit   *int     `json:"limit,omitempty"`
	Offset  *int     `json:"offset,omitempty"`
	Sort    *Sort    `json:"sort,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// Intent is the structured representation of a caller's request, as
// extracted from natural language. It is untrusted until validated.
type Intent struct {
	Kind       string           `json:"intent"`
	Parameters IntentParameters `json:"parameters"`
}

// ValidationResult reports whether an intent passed validation, with every
// detected problem itemized. Schema carries the resolved table schema
// forward so the compiler does not re-resolve it.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Errors []string     `json:"errors,omitempty"`
	Schema *TableSchema `json:"-"`
}
