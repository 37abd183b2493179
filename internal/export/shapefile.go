package export

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/verdantworks/plantation-cli/internal/model"
)

// WriteShapefile writes the plan as an ESRI point shapefile at path,
// producing the .shp/.shx/.dbf siblings. Attributes: ID, SCORE, and the
// species list truncated to the DBF field width.
func WriteShapefile(path string, plan *model.Plan) error {
	writer, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	defer writer.Close()

	fields := []shp.Field{
		shp.NumberField("ID", 10),
		shp.FloatField("SCORE", 10, 1),
		shp.StringField("SPECIES", 120),
	}
	writer.SetFields(fields)

	for i, p := range plan.Points {
		writer.Write(&shp.Point{X: p.Lon, Y: p.Lat})

		species := strings.Join(p.Species, "; ")
		if len(species) > 120 {
			species = species[:120]
		}
		writer.WriteAttribute(i, 0, i+1)
		writer.WriteAttribute(i, 1, p.Score)
		writer.WriteAttribute(i, 2, species)
	}

	return nil
}
