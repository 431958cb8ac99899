package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// TaskUpdate carries the fields of a partial task update. Nil pointers leave
// the stored value untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	Update(ctx context.Context, id string, update TaskUpdate) (*domain.Task, error)
	// Delete removes the task and returns its last persisted state.
	Delete(ctx context.Context, id string) (*domain.Task, error)
}
