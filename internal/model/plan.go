package model

import (
	"time"
)

// PlanSource describes which point-generation strategy produced a plan.
type PlanSource string

const (
	// PlanSourceRaster means points were selected from a suitability raster.
	PlanSourceRaster PlanSource = "raster"
	// PlanSourceSpiral means points came from the spiral fallback pattern.
	PlanSourceSpiral PlanSource = "spiral"
)

// Coordinate is a latitude/longitude pair in decimal degrees.
// Values are passed through unvalidated; out-of-range coordinates are the
// caller's responsibility.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// EnvironmentalFactors is a snapshot of site conditions at or near one
// coordinate. Each factor is nominally in [0,1].
type EnvironmentalFactors struct {
	Vegetation float64 `json:"vegetation"`
	Water      float64 `json:"water"`
	Soil       float64 `json:"soil"`
}

// CandidatePoint is one scored, species-annotated plantation candidate.
// Score is always in [0,100] with one decimal of precision; Species is
// never empty.
type CandidatePoint struct {
	Coordinate
	Score   float64  `json:"score"`
	Species []string `json:"species"`
}

// Plan is an ordered set of candidate points for one query. Points are in
// descending-score order (the raster strategy emits them that way during
// selection; the spiral strategy sorts explicitly).
type Plan struct {
	ID        string           `json:"id"`
	Center    Coordinate       `json:"center"`
	Source    PlanSource       `json:"source"`
	Points    []CandidatePoint `json:"points"`
	CreatedAt time.Time        `json:"created_at"`
}
