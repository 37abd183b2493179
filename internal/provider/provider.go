// Package provider supplies environmental factors for a coordinate. Two
// implementations exist: RandomProvider samples plausible factors when no
// real data source is available, and RasterProvider derives the vegetation
// factor from a suitability raster. The planner works against the Provider
// interface and does not care which is behind it.
package provider

import (
	"context"
	"math"
	"math/rand"

	"github.com/verdantworks/plantation-cli/internal/model"
	"github.com/verdantworks/plantation-cli/internal/raster"
)

// Provider yields an environmental factor snapshot for a coordinate.
type Provider interface {
	Factors(ctx context.Context, at model.Coordinate) (model.EnvironmentalFactors, error)
}

// RandomProvider samples factors uniformly from ranges that produce
// plausible mid-to-good sites. The random source is injectable for
// reproducible output.
type RandomProvider struct {
	rng *rand.Rand
}

// NewRandom creates a RandomProvider. rng may be nil to use the global
// generator.
func NewRandom(rng *rand.Rand) *RandomProvider {
	return &RandomProvider{rng: rng}
}

// Factors samples one factor triple. Values are rounded to two decimals.
func (p *RandomProvider) Factors(_ context.Context, _ model.Coordinate) (model.EnvironmentalFactors, error) {
	return model.EnvironmentalFactors{
		Vegetation: round2(p.uniform(0.4, 0.9)),
		Water:      round2(p.uniform(0.3, 0.8)),
		Soil:       round2(p.uniform(0.4, 0.9)),
	}, nil
}

func (p *RandomProvider) uniform(lo, hi float64) float64 {
	if p.rng != nil {
		return lo + p.rng.Float64()*(hi-lo)
	}
	return lo + rand.Float64()*(hi-lo)
}

// RasterProvider derives the vegetation factor from the raster pixel
// nearest a coordinate and samples water and soil, mirroring how raster
// scores embed vegetation signal but carry no hydrology or soil data.
type RasterProvider struct {
	grid         *raster.Grid
	center       model.Coordinate
	footprintDeg float64
	rng          *rand.Rand
}

// NewRaster creates a RasterProvider for a grid centered on center and
// spanning footprintDeg degrees per axis.
func NewRaster(grid *raster.Grid, center model.Coordinate, footprintDeg float64, rng *rand.Rand) *RasterProvider {
	return &RasterProvider{grid: grid, center: center, footprintDeg: footprintDeg, rng: rng}
}

// Factors maps the coordinate back to the nearest pixel and converts its
// score to a vegetation factor; water and soil are sampled.
func (p *RasterProvider) Factors(_ context.Context, at model.Coordinate) (model.EnvironmentalFactors, error) {
	if err := p.grid.Validate(); err != nil {
		return model.EnvironmentalFactors{}, err
	}

	// Round, not truncate: the coordinate was produced from a pixel index
	// and the reverse mapping must land on the same pixel despite float
	// error in the lat/lon deltas.
	row := int(math.Round(((at.Lat-p.center.Lat)/p.footprintDeg + 0.5) * float64(p.grid.Height)))
	col := int(math.Round(((at.Lon-p.center.Lon)/p.footprintDeg + 0.5) * float64(p.grid.Width)))
	row = clampIndex(row, p.grid.Height)
	col = clampIndex(col, p.grid.Width)

	score := p.grid.At(row, col)
	return model.EnvironmentalFactors{
		Vegetation: math.Min(1, score/100),
		Water:      p.uniform(0.4, 0.8),
		Soil:       p.uniform(0.5, 0.9),
	}, nil
}

func (p *RasterProvider) uniform(lo, hi float64) float64 {
	if p.rng != nil {
		return lo + p.rng.Float64()*(hi-lo)
	}
	return lo + rand.Float64()*(hi-lo)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
