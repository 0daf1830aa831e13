package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
	"github.com/domka/erp-api/pkg/sanitize"
)

const maxTasks = 100

// TaskUseCase tareas personales de cada usuario.
type TaskUseCase struct {
	repo     repository.TaskRepository
	activity *ActivityUseCase
}

// NewTaskUseCase construye el caso de uso.
func NewTaskUseCase(repo repository.TaskRepository, activity *ActivityUseCase) *TaskUseCase {
	return &TaskUseCase{repo: repo, activity: activity}
}

// Create crea una tarea del principal. Prioridad por defecto: medium.
func (uc *TaskUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := access.RequireSession(p); err != nil {
		return nil, err
	}
	title := sanitize.Text(in.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	due, err := time.Parse(dto.DateLayout, in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	priority := in.Priority
	switch priority {
	case "":
		priority = entity.PriorityMedium
	case entity.PriorityHigh, entity.PriorityMedium, entity.PriorityLow:
	default:
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	task := &entity.Task{
		ID:        uuid.New().String(),
		CompanyID: p.CompanyID,
		UserID:    p.UserID,
		Title:     title,
		DueDate:   due,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, p.CompanyID, p.UserID, entity.ActivityTask, "Nueva tarea: "+task.Title)
	out := dto.ToTaskResponse(task)
	return &out, nil
}

// ListMine tareas del principal ordenadas por vencimiento.
func (uc *TaskUseCase) ListMine(ctx context.Context, p *access.Principal, onlyPending bool) ([]dto.TaskResponse, error) {
	if err := access.RequireSession(p); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByUser(ctx, p.UserID, onlyPending, maxTasks)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.ToTaskResponse(t))
	}
	return out, nil
}

// Toggle alterna el estado completado. Solo el dueño puede hacerlo.
func (uc *TaskUseCase) Toggle(ctx context.Context, p *access.Principal, id string) (*dto.TaskResponse, error) {
	if err := access.RequireSession(p); err != nil {
		return nil, err
	}
	task, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil || task.UserID != p.UserID {
		return nil, domain.ErrNotFound
	}
	task.Completed = !task.Completed
	if err := uc.repo.SetCompleted(ctx, task.ID, task.Completed); err != nil {
		return nil, err
	}
	out := dto.ToTaskResponse(task)
	return &out, nil
}
