package spatial

import (
	"math"
	"sort"

	"github.com/verdantworks/plantation-cli/internal/model"
	"github.com/verdantworks/plantation-cli/internal/raster"
)

const (
	// Primary and relaxed pixel-selection thresholds. If no pixel exceeds
	// the primary threshold the selection is retried once at the relaxed
	// one; an empty result after that is a legitimate terminal case.
	scoreThreshold        = 50.0
	relaxedScoreThreshold = 30.0

	// DefaultMinPixelSpacing is the minimum pixel-grid distance between
	// accepted points.
	DefaultMinPixelSpacing = 15.0

	// DefaultFootprintDeg is the geographic span of a raster per axis,
	// roughly one kilometer.
	DefaultFootprintDeg = 0.01
)

// ScoredCoordinate pairs a candidate coordinate with the raster score it
// was selected for.
type ScoredCoordinate struct {
	model.Coordinate
	Score float64
}

type pixel struct {
	row, col int
	score    float64
}

// FromRaster selects up to targetCount well-spaced high-score pixels from
// grid and maps them to coordinates around center. Pixels scoring above 50
// qualify (relaxed once to 30 if none do), are ranked by descending score
// with ties broken by row-major encounter order, and are accepted greedily:
// a pixel within minPixelSpacing of an already accepted pixel is skipped.
// footprintDeg is the geographic span the full raster covers per axis.
func FromRaster(center model.Coordinate, grid *raster.Grid, targetCount int, minPixelSpacing, footprintDeg float64) []ScoredCoordinate {
	if minPixelSpacing <= 0 {
		minPixelSpacing = DefaultMinPixelSpacing
	}
	if footprintDeg <= 0 {
		footprintDeg = DefaultFootprintDeg
	}

	candidates := qualifyingPixels(grid, scoreThreshold)
	if len(candidates) == 0 {
		candidates = qualifyingPixels(grid, relaxedScoreThreshold)
	}
	if len(candidates) == 0 {
		return nil
	}

	// Stable sort keeps encounter order for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var accepted []pixel
	for _, c := range candidates {
		if len(accepted) >= targetCount {
			break
		}
		if tooClose(c, accepted, minPixelSpacing) {
			continue
		}
		accepted = append(accepted, c)
	}

	points := make([]ScoredCoordinate, 0, len(accepted))
	for _, p := range accepted {
		latOffset := (float64(p.row)/float64(grid.Height) - 0.5) * footprintDeg
		lonOffset := (float64(p.col)/float64(grid.Width) - 0.5) * footprintDeg

		points = append(points, ScoredCoordinate{
			Coordinate: model.Coordinate{
				Lat: center.Lat + latOffset,
				Lon: center.Lon + lonOffset,
			},
			Score: p.score,
		})
	}
	return points
}

func qualifyingPixels(grid *raster.Grid, threshold float64) []pixel {
	var out []pixel
	for row := 0; row < grid.Height; row++ {
		for col := 0; col < grid.Width; col++ {
			if v := grid.At(row, col); v > threshold {
				out = append(out, pixel{row: row, col: col, score: v})
			}
		}
	}
	return out
}

// tooClose reports whether c is within minSpacing of any accepted pixel.
// Quadratic in accepted-point count, fine at the target scale of <=200.
func tooClose(c pixel, accepted []pixel, minSpacing float64) bool {
	for _, a := range accepted {
		dr := float64(c.row - a.row)
		dc := float64(c.col - a.col)
		if math.Sqrt(dr*dr+dc*dc) < minSpacing {
			return true
		}
	}
	return false
}
