package repository

import (
	"context"

	"github.com/domka/erp-api/internal/domain/entity"
)

// TaskRepository define el puerto de persistencia para Task.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// ListByUser ordena por fecha de vencimiento; onlyPending excluye completadas.
	ListByUser(ctx context.Context, userID string, onlyPending bool, limit int) ([]*entity.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
}
