package repository

import (
	"context"
	"time"
)

// SystemStatsRepository consultas de lectura para el panel de superadmin.
type SystemStatsRepository interface {
	CountCompanies(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)
	// CompaniesByPlan devuelve plan -> cantidad de empresas.
	CompaniesByPlan(ctx context.Context) (map[string]int, error)
	// UserRegistrationsByDay usuarios creados desde since agrupados por día (UTC).
	UserRegistrationsByDay(ctx context.Context, since time.Time) ([]DailyCount, error)
}
