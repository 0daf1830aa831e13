package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo registro de actividad append-only.
type ActivityRepo struct {
	q Querier
}

// NewActivityRepository construye el adaptador.
func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

// Create inserta una entrada. Sin UPDATE ni DELETE en este repositorio.
func (r *ActivityRepo) Create(ctx context.Context, a *entity.Activity) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO activities (id, company_id, user_id, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, nullable(a.CompanyID), nullable(a.UserID), a.Type, a.Description, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListRecent más reciente primero; companyID vacío = todo el sistema.
func (r *ActivityRepo) ListRecent(ctx context.Context, companyID string, limit int) ([]*entity.Activity, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, COALESCE(company_id::text, ''), COALESCE(user_id::text, ''), type, description, created_at
		FROM activities
		WHERE ($1 = '' OR company_id::text = $1)
		ORDER BY created_at DESC LIMIT $2`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var list []*entity.Activity
	for rows.Next() {
		var a entity.Activity
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.UserID, &a.Type, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// CountByDay agrupa por día UTC.
func (r *ActivityRepo) CountByDay(ctx context.Context, activityType string, since time.Time) ([]repository.DailyCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, COUNT(*)
		FROM activities
		WHERE type = $1 AND created_at >= $2
		GROUP BY day ORDER BY day`, activityType, since)
	if err != nil {
		return nil, fmt.Errorf("count activity by day: %w", err)
	}
	return scanDailyCounts(rows)
}
