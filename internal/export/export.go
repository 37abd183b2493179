// Package export serializes plantation plans to the interchange formats
// planners actually consume: CSV, GeoJSON, KML, ESRI shapefile, XLSX, and a
// plain terminal table.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/verdantworks/plantation-cli/internal/model"
)

// Format identifies an output serialization.
type Format string

const (
	FormatCSV       Format = "csv"
	FormatGeoJSON   Format = "geojson"
	FormatKML       Format = "kml"
	FormatShapefile Format = "shp"
	FormatXLSX      Format = "xlsx"
	FormatTable     Format = "table"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatGeoJSON, FormatKML, FormatShapefile, FormatXLSX, FormatTable:
		return f, nil
	default:
		return "", eris.Errorf("export: unsupported format %q", s)
	}
}

// Write serializes a plan to w in the given format. The shapefile format
// writes sibling files on disk and cannot target a plain writer; use
// WriteFile for it.
func Write(w io.Writer, plan *model.Plan, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, plan)
	case FormatGeoJSON:
		return WriteGeoJSON(w, plan)
	case FormatKML:
		return WriteKML(w, plan)
	case FormatXLSX:
		return WriteXLSX(w, plan)
	case FormatTable:
		return WriteTable(w, plan)
	case FormatShapefile:
		return eris.New("export: shapefile output requires a file path")
	default:
		return eris.Errorf("export: unsupported format %q", format)
	}
}

// WriteFile serializes a plan to path, creating the file. Shapefile output
// is dispatched to the shapefile writer, which produces .shp/.shx/.dbf
// siblings from the base path.
func WriteFile(path string, plan *model.Plan, format Format) error {
	if format == FormatShapefile {
		return WriteShapefile(path, plan)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	return Write(f, plan, format)
}

// DefaultExtension returns the conventional file extension for a format.
func DefaultExtension(format Format) string {
	switch format {
	case FormatCSV:
		return ".csv"
	case FormatGeoJSON:
		return ".geojson"
	case FormatKML:
		return ".kml"
	case FormatShapefile:
		return ".shp"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// OutputPath builds a default output filename for a plan in a directory,
// embedding the center coordinate the way field teams expect:
// plantation_plan_<lat>_<lon><ext>.
func OutputPath(dir string, plan *model.Plan, format Format) string {
	name := planFileName(plan) + DefaultExtension(format)
	return filepath.Join(dir, name)
}
