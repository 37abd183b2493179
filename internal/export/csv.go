package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/verdantworks/plantation-cli/internal/model"
)

// WriteCSV writes one row per candidate point: id, lat, lon, score, and the
// species list joined with semicolons.
func WriteCSV(w io.Writer, plan *model.Plan) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"id", "lat", "lon", "score", "species"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}

	for i, p := range plan.Points {
		row := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.6f", p.Lat),
			fmt.Sprintf("%.6f", p.Lon),
			fmt.Sprintf("%.1f", p.Score),
			strings.Join(p.Species, "; "),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "export: write CSV row %d", i+1)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush CSV")
}

// WriteTable writes a fixed-width terminal table, one line per point.
func WriteTable(w io.Writer, plan *model.Plan) error {
	header := fmt.Sprintf("%-4s %12s %12s %7s  %s\n", "#", "Lat", "Lon", "Score", "Species")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "export: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 78)); err != nil {
		return eris.Wrap(err, "export: write table separator")
	}

	for i, p := range plan.Points {
		species := strings.Join(p.Species, ", ")
		if len(species) > 44 {
			species = species[:41] + "..."
		}
		line := fmt.Sprintf("%-4d %12.6f %12.6f %7.1f  %s\n", i+1, p.Lat, p.Lon, p.Score, species)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrapf(err, "export: write table row %d", i+1)
		}
	}
	return nil
}

func planFileName(plan *model.Plan) string {
	return fmt.Sprintf("plantation_plan_%.4f_%.4f", plan.Center.Lat, plan.Center.Lon)
}
