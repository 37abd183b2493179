// Package spatial generates candidate plantation coordinates around a
// center point, either from a deterministic spiral pattern or by greedy
// selection of high-score raster pixels under a minimum-spacing constraint.
package spatial

import (
	"math"

	"github.com/verdantworks/plantation-cli/internal/model"
)

// Spiral emits count coordinates on an area-uniform spiral around center.
// The sqrt radial term compensates for the growing circumference, keeping
// point density roughly constant across the disk. The first point (i=0) is
// the center itself; all points lie within radius degrees of center. The
// pattern is fully deterministic.
func Spiral(center model.Coordinate, radius float64, count int) []model.Coordinate {
	points := make([]model.Coordinate, 0, count)

	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		r := radius * math.Sqrt(float64(i)/float64(count))

		points = append(points, model.Coordinate{
			Lat: center.Lat + r*math.Cos(angle),
			Lon: center.Lon + r*math.Sin(angle),
		})
	}

	return points
}
