package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/verdantworks/plantation-cli/internal/db"
	"github.com/verdantworks/plantation-cli/internal/model"
)

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a new connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests to inject a
// pgxmock pool.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS plans (
	id          TEXT PRIMARY KEY,
	center_lat  DOUBLE PRECISION NOT NULL,
	center_lon  DOUBLE PRECISION NOT NULL,
	source      TEXT NOT NULL,
	point_count INTEGER NOT NULL,
	points      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_plans_source ON plans(source);
CREATE INDEX IF NOT EXISTS idx_plans_created_at ON plans(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SavePlan(ctx context.Context, plan *model.Plan) error {
	pointsJSON, err := json.Marshal(plan.Points)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal points")
	}

	createdAt := plan.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO plans (id, center_lat, center_lon, source, point_count, points, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		plan.ID, plan.Center.Lat, plan.Center.Lon, string(plan.Source),
		len(plan.Points), string(pointsJSON), createdAt,
	)
	return eris.Wrapf(err, "postgres: insert plan %s", plan.ID)
}

func (s *PostgresStore) GetPlan(ctx context.Context, id string) (*model.Plan, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, center_lat, center_lon, source, points, created_at FROM plans WHERE id = $1`,
		id,
	)

	var (
		p          model.Plan
		source     string
		pointsJSON []byte
	)
	err := row.Scan(&p.ID, &p.Center.Lat, &p.Center.Lon, &source, &pointsJSON, &p.CreatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "id %s", id)
		}
		return nil, eris.Wrap(err, "postgres: scan plan")
	}

	p.Source = model.PlanSource(source)
	if err := json.Unmarshal(pointsJSON, &p.Points); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal points")
	}
	return &p, nil
}

func (s *PostgresStore) ListPlans(ctx context.Context, filter PlanFilter) ([]PlanSummary, error) {
	query := `SELECT id, center_lat, center_lon, source, point_count, created_at FROM plans`
	var args []any

	if filter.Source != "" {
		args = append(args, string(filter.Source))
		query += ` WHERE source = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list plans")
	}
	defer rows.Close()

	var plans []PlanSummary
	for rows.Next() {
		var (
			ps        PlanSummary
			source    string
			createdAt time.Time
		)
		if err := rows.Scan(&ps.ID, &ps.Center.Lat, &ps.Center.Lon, &source, &ps.PointCount, &createdAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan plan summary")
		}
		ps.Source = model.PlanSource(source)
		ps.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		plans = append(plans, ps)
	}
	return plans, eris.Wrap(rows.Err(), "postgres: list plans iterate")
}
