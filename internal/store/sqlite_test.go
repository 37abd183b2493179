package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantworks/plantation-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testPlan(source model.PlanSource) *model.Plan {
	return &model.Plan{
		ID:     uuid.New().String(),
		Center: model.Coordinate{Lat: 26.9, Lon: 75.8},
		Source: source,
		Points: []model.CandidatePoint{
			{Coordinate: model.Coordinate{Lat: 26.9, Lon: 75.8}, Score: 75.5, Species: []string{"Neem (Azadirachta indica)"}},
			{Coordinate: model.Coordinate{Lat: 26.91, Lon: 75.81}, Score: 60.1, Species: []string{"Babool", "Khejri"}},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLite_SaveAndGetPlan(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	plan := testPlan(model.PlanSourceSpiral)
	require.NoError(t, st.SavePlan(ctx, plan))

	got, err := st.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)
	assert.Equal(t, plan.Center, got.Center)
	assert.Equal(t, plan.Source, got.Source)
	assert.Equal(t, plan.Points, got.Points)
}

func TestSQLite_GetPlanMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetPlan(context.Background(), "no-such-plan")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ListPlans(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	spiral := testPlan(model.PlanSourceSpiral)
	rasterPlan := testPlan(model.PlanSourceRaster)
	require.NoError(t, st.SavePlan(ctx, spiral))
	require.NoError(t, st.SavePlan(ctx, rasterPlan))

	all, err := st.ListPlans(ctx, PlanFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, ps := range all {
		assert.Equal(t, 2, ps.PointCount)
		assert.NotEmpty(t, ps.CreatedAt)
	}

	onlyRaster, err := st.ListPlans(ctx, PlanFilter{Source: model.PlanSourceRaster})
	require.NoError(t, err)
	require.Len(t, onlyRaster, 1)
	assert.Equal(t, rasterPlan.ID, onlyRaster[0].ID)
}

func TestSQLite_ListPlansLimit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, st.SavePlan(ctx, testPlan(model.PlanSourceSpiral)))
	}

	limited, err := st.ListPlans(ctx, PlanFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, limited, 3)
}

func TestSQLite_DuplicateIDRejected(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	plan := testPlan(model.PlanSourceSpiral)
	require.NoError(t, st.SavePlan(ctx, plan))
	assert.Error(t, st.SavePlan(ctx, plan))
}
