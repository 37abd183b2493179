// Package planner assembles plantation plans: it combines a point-generation
// strategy with suitability scoring and species recommendation to produce a
// ranked, capped list of candidate points.
package planner

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdantworks/plantation-cli/internal/model"
	"github.com/verdantworks/plantation-cli/internal/provider"
	"github.com/verdantworks/plantation-cli/internal/raster"
	"github.com/verdantworks/plantation-cli/internal/spatial"
	"github.com/verdantworks/plantation-cli/internal/species"
	"github.com/verdantworks/plantation-cli/internal/suitability"
)

const (
	// DefaultCount is the plan size when the caller does not specify one.
	DefaultCount = 100
	// MinCount and MaxCount bound caller-supplied plan sizes.
	MinCount = 50
	MaxCount = 200

	// DefaultRadiusDeg is the spiral sampling radius, matching the raster
	// footprint of roughly one kilometer.
	DefaultRadiusDeg = 0.01

	// vegetationPerturbation is the per-point offset applied to the global
	// vegetation factor on the spiral path.
	vegetationPerturbation = 0.1
)

// Options tunes plan assembly. Zero values select the defaults above.
type Options struct {
	RadiusDeg       float64
	FootprintDeg    float64
	MinPixelSpacing float64
}

// Request describes one plan query. Raster is optional; when nil the
// spiral fallback strategy is used. Count of zero means DefaultCount,
// anything else is clamped into [MinCount, MaxCount].
type Request struct {
	Center model.Coordinate
	Count  int
	Raster *raster.Grid
}

// Planner orchestrates point generation, scoring, and species annotation.
// It holds no state between calls beyond the shared random source, so a
// Planner with a nil source is safe for concurrent use; give each
// goroutine its own seeded Planner when reproducibility matters.
type Planner struct {
	scorer    *suitability.Scorer
	recommend *species.Recommender
	rng       *rand.Rand
	opts      Options
}

// New creates a Planner. rng may be nil for nondeterministic output;
// tiers may be nil for the default species table.
func New(opts Options, tiers []species.Tier, rng *rand.Rand) *Planner {
	if opts.RadiusDeg <= 0 {
		opts.RadiusDeg = DefaultRadiusDeg
	}
	if opts.FootprintDeg <= 0 {
		opts.FootprintDeg = spatial.DefaultFootprintDeg
	}
	if opts.MinPixelSpacing <= 0 {
		opts.MinPixelSpacing = spatial.DefaultMinPixelSpacing
	}
	return &Planner{
		scorer:    suitability.New(rng),
		recommend: species.New(tiers),
		rng:       rng,
		opts:      opts,
	}
}

// Plan produces a plantation plan for one request. Either the full plan is
// returned or an error; there are no partial results. A malformed raster
// is the only error condition.
func (p *Planner) Plan(ctx context.Context, req Request) (*model.Plan, error) {
	count := clampCount(req.Count)

	plan := &model.Plan{
		ID:        uuid.New().String(),
		Center:    req.Center,
		CreatedAt: time.Now().UTC(),
	}

	if req.Raster != nil {
		if err := req.Raster.Validate(); err != nil {
			return nil, err
		}
		plan.Source = model.PlanSourceRaster
		plan.Points = p.fromRaster(ctx, req.Center, req.Raster, count)
	} else {
		plan.Source = model.PlanSourceSpiral
		plan.Points = p.fromSpiral(ctx, req.Center, count)
	}

	zap.L().Debug("planner: plan assembled",
		zap.String("plan_id", plan.ID),
		zap.String("source", string(plan.Source)),
		zap.Int("points", len(plan.Points)),
	)

	return plan, nil
}

// fromRaster selects well-spaced high-score pixels. Scores come straight
// from the raster; the factor provider derives vegetation from the pixel
// score and samples water/soil per point for species recommendation.
// Points stay in selection order, which is already descending by score.
func (p *Planner) fromRaster(ctx context.Context, center model.Coordinate, grid *raster.Grid, count int) []model.CandidatePoint {
	scored := spatial.FromRaster(center, grid, count, p.opts.MinPixelSpacing, p.opts.FootprintDeg)
	prov := provider.NewRaster(grid, center, p.opts.FootprintDeg, p.rng)

	points := make([]model.CandidatePoint, 0, len(scored))
	for _, sc := range scored {
		factors, _ := prov.Factors(ctx, sc.Coordinate) // grid is validated by Plan

		points = append(points, model.CandidatePoint{
			Coordinate: sc.Coordinate,
			Score:      clampScore(sc.Score),
			Species:    p.recommend.Recommend(factors.Vegetation, factors.Water, factors.Soil),
		})
	}

	if len(points) > count {
		points = points[:count]
	}
	return points
}

// fromSpiral samples one global factor triple for the query, spreads
// candidates on the spiral, perturbs vegetation per point, then scores and
// ranks the result.
func (p *Planner) fromSpiral(ctx context.Context, center model.Coordinate, count int) []model.CandidatePoint {
	global, _ := provider.NewRandom(p.rng).Factors(ctx, center) // RandomProvider cannot fail

	coords := spatial.Spiral(center, p.opts.RadiusDeg, count)

	points := make([]model.CandidatePoint, 0, len(coords))
	for _, c := range coords {
		vegetation := clamp01(global.Vegetation + p.uniform(-vegetationPerturbation, vegetationPerturbation))
		score := p.scorer.Score(vegetation, global.Water, global.Soil)

		points = append(points, model.CandidatePoint{
			Coordinate: c,
			Score:      score,
			Species:    p.recommend.Recommend(vegetation, global.Water, global.Soil),
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Score > points[j].Score
	})

	if len(points) > count {
		points = points[:count]
	}
	return points
}

func (p *Planner) uniform(lo, hi float64) float64 {
	if p.rng != nil {
		return lo + p.rng.Float64()*(hi-lo)
	}
	return lo + rand.Float64()*(hi-lo)
}

func clampCount(n int) int {
	switch {
	case n == 0:
		return DefaultCount
	case n < MinCount:
		return MinCount
	case n > MaxCount:
		return MaxCount
	default:
		return n
	}
}

func clampScore(v float64) float64 {
	v = math.Max(0, math.Min(100, v))
	return math.Round(v*10) / 10
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
