package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/verdantworks/plantation-cli/internal/model"
)

// WriteGeoJSON writes the plan as a FeatureCollection of Point features.
// Coordinates follow the GeoJSON axis order [lon, lat]; id, suitability,
// and species ride in the feature properties.
func WriteGeoJSON(w io.Writer, plan *model.Plan) error {
	fc := &geojson.FeatureCollection{}

	for i, p := range plan.Points {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}).SetSRID(4326),
			Properties: map[string]interface{}{
				"id":          i + 1,
				"suitability": p.Score,
				"species":     p.Species,
			},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return eris.Wrap(err, "export: encode GeoJSON")
	}
	return nil
}
