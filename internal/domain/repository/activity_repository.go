package repository

import (
	"context"
	"time"

	"github.com/domka/erp-api/internal/domain/entity"
)

// ActivityRepository registro append-only de actividad.
type ActivityRepository interface {
	Create(ctx context.Context, a *entity.Activity) error
	// ListRecent devuelve lo más reciente primero; companyID vacío = todo el sistema.
	ListRecent(ctx context.Context, companyID string, limit int) ([]*entity.Activity, error)
	// CountByDay cuenta entradas del tipo dado desde since agrupadas por día (UTC).
	CountByDay(ctx context.Context, activityType string, since time.Time) ([]DailyCount, error)
}

// DailyCount conteo de un día (Day truncado a medianoche UTC).
type DailyCount struct {
	Day   time.Time
	Count int
}
