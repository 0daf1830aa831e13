package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/domka/erp-api/internal/domain/repository"
)

var _ repository.SystemStatsRepository = (*SystemStatsRepo)(nil)

// SystemStatsRepo consultas agregadas read-only para el panel de superadmin.
type SystemStatsRepo struct {
	q Querier
}

// NewSystemStatsRepository construye el adaptador.
func NewSystemStatsRepository(q Querier) *SystemStatsRepo {
	return &SystemStatsRepo{q: q}
}

func (r *SystemStatsRepo) CountCompanies(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

func (r *SystemStatsRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CompaniesByPlan plan -> número de empresas.
func (r *SystemStatsRepo) CompaniesByPlan(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT plan, COUNT(*) FROM companies GROUP BY plan`)
	if err != nil {
		return nil, fmt.Errorf("companies by plan: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var plan string
		var n int
		if err := rows.Scan(&plan, &n); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out[plan] = n
	}
	return out, rows.Err()
}

// UserRegistrationsByDay altas de usuarios agrupadas por día UTC.
func (r *SystemStatsRepo) UserRegistrationsByDay(ctx context.Context, since time.Time) ([]repository.DailyCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, COUNT(*)
		FROM users WHERE created_at >= $1
		GROUP BY day ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("registrations by day: %w", err)
	}
	return scanDailyCounts(rows)
}

func scanDailyCounts(rows pgx.Rows) ([]repository.DailyCount, error) {
	defer rows.Close()
	var out []repository.DailyCount
	for rows.Next() {
		var d repository.DailyCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		// timestamp sin zona: pgx lo devuelve como UTC
		d.Day = d.Day.UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}
