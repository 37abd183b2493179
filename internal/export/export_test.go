package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantworks/plantation-cli/internal/model"
)

func samplePlan() *model.Plan {
	return &model.Plan{
		ID:     "test-plan",
		Center: model.Coordinate{Lat: 26.9124, Lon: 75.7873},
		Source: model.PlanSourceSpiral,
		Points: []model.CandidatePoint{
			{
				Coordinate: model.Coordinate{Lat: 26.9124, Lon: 75.7873},
				Score:      88.5,
				Species:    []string{"Neem (Azadirachta indica)", "Bamboo", "Peepal (Ficus religiosa)"},
			},
			{
				Coordinate: model.Coordinate{Lat: 26.9150, Lon: 75.7900},
				Score:      61.2,
				Species:    []string{"Babool (Acacia nilotica)", "Khejri (Prosopis cineraria)"},
			},
		},
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"GeoJSON", FormatGeoJSON},
		{" kml ", FormatKML},
		{"shp", FormatShapefile},
		{"xlsx", FormatXLSX},
		{"table", FormatTable},
	} {
		got, err := ParseFormat(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePlan()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,lat,lon,score,species", lines[0])
	assert.Contains(t, lines[1], "88.5")
	assert.Contains(t, lines[1], "Neem (Azadirachta indica); Bamboo")
	assert.Contains(t, lines[2], "61.2")
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, samplePlan()))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	// GeoJSON axis order is lon, lat.
	assert.InDelta(t, 75.7873, fc.Features[0].Geometry.Coordinates[0], 1e-9)
	assert.InDelta(t, 26.9124, fc.Features[0].Geometry.Coordinates[1], 1e-9)
	assert.Equal(t, 88.5, fc.Features[0].Properties["suitability"])
}

func TestWriteKML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKML(&buf, samplePlan()))

	out := buf.String()
	assert.Contains(t, out, `<kml xmlns="http://www.opengis.net/kml/2.2">`)
	assert.Contains(t, out, "<name>Point 1</name>")
	assert.Contains(t, out, "75.787300,26.912400,0")
	assert.Contains(t, out, "Suitability: 88.5/100")
	// Description lists at most the top two species.
	assert.NotContains(t, out, "Peepal")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, samplePlan()))

	out := buf.String()
	assert.Contains(t, out, "Score")
	assert.Contains(t, out, "88.5")
	assert.Contains(t, out, "61.2")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, samplePlan()))
	// XLSX files are ZIP archives.
	assert.Equal(t, "PK", buf.String()[:2])
}

func TestWriteShapefile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.shp")
	require.NoError(t, WriteShapefile(path, samplePlan()))

	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		sibling := strings.TrimSuffix(path, ".shp") + ext
		info, err := os.Stat(sibling)
		require.NoError(t, err, "missing %s", ext)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestWriteFile_CSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.csv")
	require.NoError(t, WriteFile(path, samplePlan(), FormatCSV))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,lat,lon,score,species")
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/out", samplePlan(), FormatGeoJSON)
	assert.Equal(t, "/out/plantation_plan_26.9124_75.7873.geojson", got)
}

func TestWrite_ShapefileNeedsPath(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, samplePlan(), FormatShapefile)
	assert.Error(t, err)
}
