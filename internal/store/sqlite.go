package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/verdantworks/plantation-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS plans (
	id          TEXT PRIMARY KEY,
	center_lat  REAL NOT NULL,
	center_lon  REAL NOT NULL,
	source      TEXT NOT NULL,
	point_count INTEGER NOT NULL,
	points      TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_plans_source ON plans(source);
CREATE INDEX IF NOT EXISTS idx_plans_created_at ON plans(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SavePlan(ctx context.Context, plan *model.Plan) error {
	pointsJSON, err := json.Marshal(plan.Points)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal points")
	}

	createdAt := plan.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plans (id, center_lat, center_lon, source, point_count, points, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.Center.Lat, plan.Center.Lon, string(plan.Source),
		len(plan.Points), string(pointsJSON), createdAt,
	)
	return eris.Wrapf(err, "sqlite: insert plan %s", plan.ID)
}

func (s *SQLiteStore) GetPlan(ctx context.Context, id string) (*model.Plan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, center_lat, center_lon, source, points, created_at FROM plans WHERE id = ?`,
		id,
	)

	var (
		p          model.Plan
		source     string
		pointsJSON string
	)
	err := row.Scan(&p.ID, &p.Center.Lat, &p.Center.Lon, &source, &pointsJSON, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "id %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan plan")
	}

	p.Source = model.PlanSource(source)
	if err := json.Unmarshal([]byte(pointsJSON), &p.Points); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal points")
	}
	return &p, nil
}

func (s *SQLiteStore) ListPlans(ctx context.Context, filter PlanFilter) ([]PlanSummary, error) {
	query := `SELECT id, center_lat, center_lon, source, point_count, created_at FROM plans WHERE 1=1`
	var args []any

	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, string(filter.Source))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list plans")
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
			return nil, eris.Wrap(err, "sqlite: scan plan summary")
		}
		ps.Source = model.PlanSource(source)
		ps.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		plans = append(plans, ps)
	}
	return plans, eris.Wrap(rows.Err(), "sqlite: list plans iterate")
}
