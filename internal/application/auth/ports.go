package auth

import (
	"context"

	"github.com/domka/erp-api/internal/domain/repository"
)

// RegistrationTxRunner ejecuta fn dentro de una transacción con repos de
// empresa y usuario atados a ella: alta de empresa y usuario es atómica.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
	) error) error
}

// ResetNotifier entrega el token de recuperación al usuario (email, log...).
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, name, token string) error
}

// ActivityRecorder registra actividad de forma best-effort.
type ActivityRecorder interface {
	Record(ctx context.Context, companyID, userID, kind, description string)
}
