package postgres

import (
	"context"
	"fmt"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo tareas personales sobre PostgreSQL.
type TaskRepo struct {
	q Querier
}

func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

const taskColumns = `id, COALESCE(company_id::text, ''), user_id, title, due_date, priority, completed, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(&t.ID, &t.CompanyID, &t.UserID, &t.Title, &t.DueDate,
		&t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tasks (id, company_id, user_id, title, due_date, priority, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, nullable(t.CompanyID), t.UserID, t.Title, t.DueDate, t.Priority, t.Completed, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	t, err := scanTask(r.q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByUser por fecha de vencimiento ascendente.
func (r *TaskRepo) ListByUser(ctx context.Context, userID string, onlyPending bool, limit int) ([]*entity.Task, error) {
	rows, err := r.q.Query(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE user_id = $1 AND (NOT $2 OR completed = false)
		ORDER BY due_date ASC, created_at ASC LIMIT $3`, userID, onlyPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TaskRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE tasks SET completed = $2, updated_at = now() WHERE id = $1`, id, completed)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
