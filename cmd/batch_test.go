//go:build !integration

package main

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantworks/plantation-cli/internal/model"
	"github.com/verdantworks/plantation-cli/internal/planner"
)

func writeCentersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "centers.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCenters(t *testing.T) {
	path := writeCentersFile(t, "28.6139,77.2090\n12.9716,77.5946,60\n")

	centers, err := readCenters(path)
	require.NoError(t, err)
	require.Len(t, centers, 2)

	assert.InDelta(t, 28.6139, centers[0].Center.Lat, 1e-9)
	assert.InDelta(t, 77.2090, centers[0].Center.Lon, 1e-9)
	assert.Equal(t, 0, centers[0].Count)
	assert.Equal(t, 60, centers[1].Count)
}

func TestReadCenters_SkipsHeader(t *testing.T) {
	path := writeCentersFile(t, "lat,lon,count\n10.5,20.5,80\n")

	centers, err := readCenters(path)
	require.NoError(t, err)
	require.Len(t, centers, 1)
	assert.InDelta(t, 10.5, centers[0].Center.Lat, 1e-9)
	assert.Equal(t, 80, centers[0].Count)
}

func TestReadCenters_BadRow(t *testing.T) {
	path := writeCentersFile(t, "10.5,20.5\nnot-a-number,30.0\n")

	_, err := readCenters(path)
	assert.Error(t, err)
}

func TestReadCenters_Empty(t *testing.T) {
	path := writeCentersFile(t, "")

	_, err := readCenters(path)
	assert.Error(t, err)
}

func TestReadCenters_MissingFile(t *testing.T) {
	_, err := readCenters(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestProcessCenters(t *testing.T) {
	plannerFor := func(i int) (*planner.Planner, error) {
		return planner.New(planner.Options{RadiusDeg: 0.01}, nil, rand.New(rand.NewSource(int64(i+1)))), nil
	}

	centers := []batchCenter{
		{Center: model.Coordinate{Lat: 10, Lon: 20}},
		{Center: model.Coordinate{Lat: 11, Lon: 21}, Count: 60},
		{Center: model.Coordinate{Lat: 12, Lon: 22}, Count: 200},
	}

	var mu sync.Mutex
	var got []*model.Plan
	err := processCenters(context.Background(), plannerFor, centers, 2, func(_ context.Context, plan *model.Plan) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, plan)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	counts := make(map[int]bool)
	for _, plan := range got {
		assert.Equal(t, model.PlanSourceSpiral, plan.Source)
		counts[len(plan.Points)] = true
	}
	assert.True(t, counts[100], "default count should clamp to 100")
	assert.True(t, counts[60])
	assert.True(t, counts[200])
}
