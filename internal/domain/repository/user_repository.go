package repository

import (
	"context"

	"github.com/domka/erp-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca sin distinguir mayúsculas; el email es único global.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persiste nombre, rol, estado y empresa.
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// List lista usuarios de companyID; companyID vacío lista todos.
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
}
