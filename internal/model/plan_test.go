package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanJSONRoundTrip(t *testing.T) {
	p := Plan{
		ID:     "7f6c1a2e-0000-0000-0000-000000000000",
		Center: Coordinate{Lat: 26.9124, Lon: 75.7873},
		Source: PlanSourceSpiral,
		Points: []CandidatePoint{
			{Coordinate: Coordinate{Lat: 26.9124, Lon: 75.7873}, Score: 71.3, Species: []string{"Babool (Acacia nilotica)"}},
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got Plan
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, p, got)
}

func TestCandidatePointJSONShape(t *testing.T) {
	cp := CandidatePoint{
		Coordinate: Coordinate{Lat: 1.5, Lon: -2.5},
		Score:      88.1,
		Species:    []string{"Neem (Azadirachta indica)", "Bamboo"},
	}

	data, err := json.Marshal(cp)
	require.NoError(t, err)

	// Coordinate embeds flat, matching the export formats.
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 1.5, m["lat"])
	assert.Equal(t, -2.5, m["lon"])
	assert.Equal(t, 88.1, m["score"])
}
