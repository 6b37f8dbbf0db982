package query

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/apperrors"
	"github.com/orza-hq/orza-engine/pkg/logging"
	"github.com/orza-hq/orza-engine/pkg/models"
)

// Executor runs one query plan against the data store and returns raw rows.
// pkg/store provides the Postgres implementation.
type Executor interface {
	FilteredRetrieve(ctx context.Context, plan *models.QueryPlan) ([]map[string]any, error)
}

// Compiler builds and executes query plans for validated intents.
type Compiler interface {
	CompileAndExecute(ctx context.Context, in *models.Intent, ts *models.TableSchema) (*models.ExecutionResult, error)
}

type compiler struct {
	store  Executor
	logger *zap.Logger
}

// NewCompiler creates a compiler that executes plans against the given store.
func NewCompiler(store Executor, logger *zap.Logger) Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &compiler{store: store, logger: logger}
}

// CompileAndExecute must only be called with an intent that passed
// validation. Execution failures are wrapped as QueryExecutionError and
// never retried here.
func (c *compiler) CompileAndExecute(ctx context.Context, in *models.Intent, ts *models.TableSchema) (*models.ExecutionResult, error) {
	plan, warnings, err := BuildPlan(in, ts)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		c.logger.Warn("Plan construction warning",
			zap.String("table", plan.Table),
			zap.String("warning", w))
	}

	start := time.Now()
	rows, err := c.store.FilteredRetrieve(ctx, plan)
	elapsed := time.Since(start)
	if err != nil {
		execErr := &apperrors.QueryExecutionError{Table: plan.Table, Err: err}
		c.logger.Error("Query execution failed",
			zap.String("table", plan.Table),
			zap.String("query_type", string(plan.Class)),
			zap.Int("predicate_count", len(plan.Predicates)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, execErr
	}

	var data any
	switch plan.Class {
	case models.ClassCount:
		data = models.CountData{Count: len(rows)}
	case models.ClassSingle:
		// Never a slice: one row or nothing.
		if len(rows) > 0 {
			data = rows[0]
		}
	default:
		if rows == nil {
			rows = []map[string]any{}
		}
		data = rows
	}

	c.logger.Info("Query executed",
		zap.String("table", plan.Table),
		zap.String("query_type", string(plan.Class)),
		zap.Int("predicate_count", len(plan.Predicates)),
		zap.Int("row_count", len(rows)),
		zap.Duration("elapsed", elapsed))

	return &models.ExecutionResult{
		Data: data,
		Metadata: models.QueryMetadata{
			QueryType:       plan.Class,
			Table:           plan.Table,
			ExecutionTimeMS: elapsed.Milliseconds(),
		},
	}, nil
}
