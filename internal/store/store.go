// Package store persists generated plantation plans so planners can revisit
// and re-export earlier queries.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/verdantworks/plantation-cli/internal/model"
)

// ErrNotFound reports a plan ID with no stored plan.
var ErrNotFound = eris.New("store: plan not found")

// PlanFilter specifies criteria for listing stored plans.
type PlanFilter struct {
	Source model.PlanSource `json:"source,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// PlanSummary is the listing row for a stored plan; points are omitted.
type PlanSummary struct {
	ID         string           `json:"id"`
	Center     model.Coordinate `json:"center"`
	Source     model.PlanSource `json:"source"`
	PointCount int              `json:"point_count"`
	CreatedAt  string           `json:"created_at"`
}

// Store defines plan persistence.
type Store interface {
	SavePlan(ctx context.Context, plan *model.Plan) error
	GetPlan(ctx context.Context, id string) (*model.Plan, error)
	ListPlans(ctx context.Context, filter PlanFilter) ([]PlanSummary, error)

	Migrate(ctx context.Context) error
	Close() error
}
