//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/models"
	"github.com/orza-hq/orza-engine/pkg/query"
	"github.com/orza-hq/orza-engine/pkg/store"
	"github.com/orza-hq/orza-engine/pkg/testhelpers"
)

func seedCandidates(t *testing.T, s *testhelpers.TestDB, orgID string) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Pool.Exec(ctx, `DELETE FROM candidates`)
	require.NoError(t, err)

	rows := []struct {
		first, last, title, tags string
	}{
		{"Ada", "Lovelace", "Engineer", `["python", "maths"]`},
		{"Grace", "Hopper", "Engineer", `["cobol"]`},
		{"Alan", "Turing", "Researcher", `["python"]`},
	}
	for _, r := range rows {
		_, err := s.Pool.Exec(ctx, `
			INSERT INTO candidates (merge_id, first_name, last_name, title, tags_json, organization_id)
			VALUES ($1, $2, $3, $4, $5::jsonb, $6)`,
			uuid.NewString(), r.first, r.last, r.title, r.tags, orgID)
		require.NoError(t, err)
	}
}

func TestFilteredRetrieve_RoundTrip(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	orgID := uuid.NewString()
	seedCandidates(t, testDB, orgID)

	s := store.NewStore(testDB.Pool, zap.NewNop())
	ctx := context.Background()

	plan := &models.QueryPlan{
		Table: "candidates",
		Class: models.ClassSelect,
		Predicates: []models.Predicate{
			{Column: "organization_id", Kind: models.PredEq, Value: orgID},
			{Column: "first_name", Kind: models.PredILike, Value: "%ada%"},
		},
		Limit: 10,
	}

	rows, err := s.FilteredRetrieve(ctx, plan)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada", rows[0]["first_name"])
}

func TestFilteredRetrieve_JSONContainment(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	orgID := uuid.NewString()
	seedCandidates(t, testDB, orgID)

	s := store.NewStore(testDB.Pool, zap.NewNop())
	ctx := context.Background()

	plan := &models.QueryPlan{
		Table: "candidates",
		Class: models.ClassSelect,
		Predicates: []models.Predicate{
			{Column: "organization_id", Kind: models.PredEq, Value: orgID},
			{Column: "tags_json", Kind: models.PredJSONContains, Value: "python"},
		},
		Limit: 10,
	}

	rows, err := s.FilteredRetrieve(ctx, plan)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFilteredRetrieve_CountMaterializesAllRows(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	orgID := uuid.NewString()
	seedCandidates(t, testDB, orgID)

	s := store.NewStore(testDB.Pool, zap.NewNop())
	ctx := context.Background()

	ts, err := s.SchemaLookup(ctx, "candidates")
	require.NoError(t, err)

	plan, _, err := query.BuildPlan(&models.Intent{
		Kind: "count_candidates",
		Parameters: models.IntentParameters{
			Filters: []models.Filter{
				{Field: "organization_id", Operator: "eq", Value: orgID, HasValue: true},
			},
		},
	}, ts)
	require.NoError(t, err)

	rows, err := s.FilteredRetrieve(ctx, plan)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	listed, err := s.FilteredRetrieve(ctx, &models.QueryPlan{
		Table: "candidates",
		Class: models.ClassSelect,
		Predicates: []models.Predicate{
			{Column: "organization_id", Kind: models.PredEq, Value: orgID},
		},
		Limit: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, len(listed), len(rows))
}

func TestSchemaLookup_LiveCatalog(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	s := store.NewStore(testDB.Pool, zap.NewNop())

	ts, err := s.SchemaLookup(context.Background(), "candidates")
	require.NoError(t, err)
	require.NotNil(t, ts)

	idCol, ok := ts.Columns["id"]
	require.True(t, ok)
	assert.True(t, idCol.IsPrimaryKey)
	assert.Equal(t, models.TypeUUID, idCol.Type)

	tagsCol, ok := ts.Columns["tags_json"]
	require.True(t, ok)
	assert.Equal(t, models.TypeJSON, tagsCol.Type)

	assert.Equal(t, "id", ts.PrimaryKey())
}

func TestSchemaLookup_UnknownTableIsEmpty(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	s := store.NewStore(testDB.Pool, zap.NewNop())

	ts, err := s.SchemaLookup(context.Background(), "no_such_table")
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Empty(t, ts.Columns)
}

func TestRecordFailure(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	s := store.NewStore(testDB.Pool, zap.NewNop())
	ctx := context.Background()
	orgID := uuid.NewString()

	err := s.RecordFailure(ctx, orgID, "how many unicorns?", `{"intent":"unknown"}`, "Unsupported intent: unknown")
	require.NoError(t, err)

	var count int
	err = testDB.Pool.QueryRow(ctx,
		`SELECT count(*) FROM query_failures WHERE organization_id = $1`, orgID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
