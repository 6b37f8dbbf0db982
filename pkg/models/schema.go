package models

// ColumnType is the primitive type bucket a column's catalog type maps into.
// Value validation keys off these buckets rather than raw catalog type names.
type ColumnType string

const (
	TypeUUID      ColumnType = "uuid"
	TypeText      ColumnType = "text"
	TypeInteger   ColumnType = "integer"
	TypeNumeric   ColumnType = "numeric"
	TypeBoolean   ColumnType = "boolean"
	TypeTimestamp ColumnType = "timestamp"
	TypeJSON      ColumnType = "json"
	// TypeUnknown covers catalog types outside the buckets above.
	// Validation is permissive for these.
	TypeUnknown ColumnType = "unknown"
)

// NormalizeColumnType maps a Postgres catalog type name to its bucket.
func NormalizeColumnType(catalogType string) ColumnType {
	switch catalogType {
	case "uuid":
		return TypeUUID
	case "text", "varchar", "char", "character varying", "character":
		return TypeText
	case "integer", "bigint", "smallint":
		return TypeInteger
	case "numeric", "decimal", "real", "double precision":
		return TypeNumeric
	case "boolean":
		return TypeBoolean
	case "date", "timestamp", "timestamp without time zone", "timestamp with time zone":
		return TypeTimestamp
	case "json", "jsonb":
		return TypeJSON
	default:
		return TypeUnknown
	}
}

// Column describes a single queryable column of a table.
type Column struct {
	Type         ColumnType `json:"type"`
	CatalogType  string     `json:"catalog_type"`
	Nullable     bool       `json:"nullable"`
	IsPrimaryKey bool       `json:"is_primary_key"`
}

// TableSchema is the authoritative description of one queryable table.
// Exactly the columns declared here are queryable; unknown fields are
// always rejected. Instances are never mutated after load.
type TableSchema struct {
	Table       string            `json:"table"`
	Columns     map[string]Column `json:"columns"`
	PrimaryKeys []string          `json:"primary_keys"`
}

// HasColumn reports whether the table declares the named column.
func (s *TableSchema) HasColumn(name string) bool {
	_, ok := s.Columns[name]
	return ok
}

// PrimaryKey returns the first primary key column, or "id" if none is
// declared. Count queries project this column only.
func (s *TableSchema) PrimaryKey() string {
	if len(s.PrimaryKeys) > 0 {
		return s.PrimaryKeys[0]
	}
	return "id"
}
