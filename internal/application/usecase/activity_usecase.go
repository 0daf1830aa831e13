package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
	"github.com/domka/erp-api/pkg/logger"
)

const maxActivityLimit = 50

// ActivityUseCase registra y consulta el log de actividad.
type ActivityUseCase struct {
	repo repository.ActivityRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(repo repository.ActivityRepository, log *logger.Logger) *ActivityUseCase {
	return &ActivityUseCase{repo: repo, log: log.Component("activity"), now: time.Now}
}

// Record agrega una entrada. Un fallo solo se registra en el log: la
// operación que originó la actividad ya se completó.
func (uc *ActivityUseCase) Record(ctx context.Context, companyID, userID, kind, description string) {
	a := &entity.Activity{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		UserID:      userID,
		Type:        kind,
		Description: description,
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		uc.log.Warn().Err(err).Str("type", kind).Str("company_id", companyID).Msg("no se pudo registrar actividad")
	}
}

// Recent actividad más reciente visible para p. companyID filtra (solo superadmin puede elegir otra).
func (uc *ActivityUseCase) Recent(ctx context.Context, p *access.Principal, companyID string, limit int) ([]dto.ActivityResponse, error) {
	scope, err := access.ListCompany(p, companyID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxActivityLimit {
		limit = 10
	}
	list, err := uc.repo.ListRecent(ctx, scope, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.ToActivityResponse(a))
	}
	return out, nil
}
