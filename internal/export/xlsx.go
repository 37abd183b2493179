package export

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/verdantworks/plantation-cli/internal/model"
)

// WriteXLSX writes the plan as a single-sheet workbook with a header row,
// for planners who review candidate sites in a spreadsheet.
func WriteXLSX(w io.Writer, plan *model.Plan) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Plantation Plan")
	if err != nil {
		return eris.Wrap(err, "export: add XLSX sheet")
	}

	header := sheet.AddRow()
	for _, name := range []string{"ID", "Lat", "Lon", "Score", "Species"} {
		header.AddCell().SetString(name)
	}

	for i, p := range plan.Points {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetFloatWithFormat(p.Lat, "0.000000")
		row.AddCell().SetFloatWithFormat(p.Lon, "0.000000")
		row.AddCell().SetFloatWithFormat(p.Score, "0.0")
		row.AddCell().SetString(strings.Join(p.Species, "; "))
	}

	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "export: write XLSX")
	}
	return nil
}
