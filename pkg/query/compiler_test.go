package query

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/apperrors"
	"github.com/orza-hq/orza-engine/pkg/models"
)

// mockStore is a configurable Executor for compiler tests.
type mockStore struct {
	rows         []map[string]any
	err          error
	capturedPlan *models.QueryPlan
}

func (m *mockStore) FilteredRetrieve(ctx context.Context, plan *models.QueryPlan) ([]map[string]any, error) {
	m.capturedPlan = plan
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func TestCompileAndExecute_Count(t *testing.T) {
	store := &mockStore{rows: []map[string]any{
		{"id": "1"}, {"id": "2"}, {"id": "3"}, {"id": "4"}, {"id": "5"}, {"id": "6"}, {"id": "7"},
	}}
	c := NewCompiler(store, zap.NewNop())

	result, err := c.CompileAndExecute(context.Background(), &models.Intent{Kind: "count_candidates"}, candidatesSchema())
	if err != nil {
		t.Fatal(err)
	}

	count, ok := result.Data.(models.CountData)
	if !ok {
		t.Fatalf("data type = %T, want CountData", result.Data)
	}
	if count.Count != 7 {
		t.Errorf("count = %d, want 7", count.Count)
	}
	if result.Metadata.QueryType != models.ClassCount || result.Metadata.Table != "candidates" {
		t.Errorf("metadata = %+v", result.Metadata)
	}
	if len(store.capturedPlan.Columns) != 1 || store.capturedPlan.Columns[0] != "id" {
		t.Errorf("count projected %v, want only the primary key", store.capturedPlan.Columns)
	}
}

func TestCompileAndExecute_SelectEmptyIsNotNil(t *testing.T) {
	c := NewCompiler(&mockStore{rows: nil}, zap.NewNop())

	result, err := c.CompileAndExecute(context.Background(), &models.Intent{Kind: "search_jobs"}, candidatesSchema())
	if err != nil {
		t.Fatal(err)
	}
	rows, ok := result.Data.([]map[string]any)
	if !ok {
		t.Fatalf("data type = %T, want []map[string]any", result.Data)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("rows = %v, want empty non-nil slice", rows)
	}
}

func TestCompileAndExecute_SingleUnwraps(t *testing.T) {
	row := map[string]any{"id": "abc", "name": "Staff Engineer"}
	c := NewCompiler(&mockStore{rows: []map[string]any{row}}, zap.NewNop())

	result, err := c.CompileAndExecute(context.Background(), &models.Intent{Kind: "get_job_details"}, candidatesSchema())
	if err != nil {
		t.Fatal(err)
	}
	got, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("data type = %T, want map (never a slice)", result.Data)
	}
	if got["name"] != "Staff Engineer" {
		t.Errorf("row = %v", got)
	}
}

func TestCompileAndExecute_SingleNoMatchIsNil(t *testing.T) {
	c := NewCompiler(&mockStore{rows: nil}, zap.NewNop())

	result, err := c.CompileAndExecute(context.Background(), &models.Intent{Kind: "get_job_details"}, candidatesSchema())
	if err != nil {
		t.Fatal(err)
	}
	if result.Data != nil {
		t.Errorf("data = %v, want nil", result.Data)
	}
}

func TestCompileAndExecute_StoreFailure(t *testing.T) {
	c := NewCompiler(&mockStore{err: errors.New("connection reset")}, zap.NewNop())

	_, err := c.CompileAndExecute(context.Background(), &models.Intent{Kind: "search_candidates"}, candidatesSchema())
	var execErr *apperrors.QueryExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("err = %v, want QueryExecutionError", err)
	}
	if execErr.Table != "candidates" {
		t.Errorf("table = %q", execErr.Table)
	}
}
