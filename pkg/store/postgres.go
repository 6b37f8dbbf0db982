// Package store executes compiled query plans against PostgreSQL and
// introspects live table schemas for the registry.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/models"
)

// Store runs reads against a PostgreSQL pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewStore creates a Postgres-backed store.
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: pool, logger: logger}
}

// FilteredRetrieve renders the plan as parameterized SQL and returns the
// matching rows as column-name keyed maps.
func (s *Store) FilteredRetrieve(ctx context.Context, plan *models.QueryPlan) ([]map[string]any, error) {
	sqlText, args, err := BuildSelectSQL(plan)
	if err != nil {
		return nil, fmt.Errorf("render query: %w", err)
	}

	s.logger.Debug("Executing retrieval",
		zap.String("table", plan.Table),
		zap.Int("param_count", len(args)))

	rows, err := s.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	names := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		names[i] = string(fd.Name)
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		rowMap := make(map[string]any, len(names))
		for i, name := range names {
			rowMap[name] = values[i]
		}
		result = append(result, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// RecordFailure inserts a row into query_failures so unanswerable questions
// can be reviewed later. Callers treat this as best effort.
func (s *Store) RecordFailure(ctx context.Context, organizationID, userMessage, queryJSON, failure string) error {
	const insertSQL = `
		INSERT INTO query_failures (id, organization_id, user_message, query, error, resolved, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, false, now())
	`
	if _, err := s.pool.Exec(ctx, insertSQL, organizationID, userMessage, queryJSON, failure); err != nil {
		return fmt.Errorf("record query failure: %w", err)
	}
	return nil
}

// schemaQuery reads column metadata from the catalog. pg_index is used for
// primary key detection since it catches keys created as unique indexes.
const schemaQuery = `
	SELECT
		c.column_name,
		c.data_type,
		c.is_nullable = 'YES' as is_nullable,
		COALESCE(pk.is_pk, false) as is_primary_key
	FROM information_schema.columns c
	LEFT JOIN (
		SELECT a.attname as column_name, true as is_pk
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE ix.indisprimary = true
		  AND n.nspname = $1
		  AND t.relname = $2
	) pk ON c.column_name = pk.column_name
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position
`

// SchemaLookup reads a table's live schema from the database catalog. An
// unknown table yields an empty schema with no error so the caller can fall
// back to its embedded definitions.
func (s *Store) SchemaLookup(ctx context.Context, table string) (*models.TableSchema, error) {
	rows, err := s.pool.Query(ctx, schemaQuery, "public", table)
	if err != nil {
		return nil, fmt.Errorf("query columns for %s: %w", table, err)
	}
	defer rows.Close()

	ts := &models.TableSchema{
		Table:   table,
		Columns: make(map[string]models.Column),
	}

	for rows.Next() {
		var (
			name        string
			catalogType string
			nullable    bool
			isPK        bool
		)
		if err := rows.Scan(&name, &catalogType, &nullable, &isPK); err != nil {
			return nil, fmt.Errorf("scan column for %s: %w", table, err)
		}
		ts.Columns[name] = models.Column{
			Type:         models.NormalizeColumnType(catalogType),
			CatalogType:  catalogType,
			Nullable:     nullable,
			IsPrimaryKey: isPK,
		}
		if isPK {
			ts.PrimaryKeys = append(ts.PrimaryKeys, name)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns for %s: %w", table, err)
	}

	return ts, nil
}
