package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// Broadcast event names, one per task mutation. The real-time layer emits
// events under exactly these names.
const (
	EventAddTask    = "addTask"
	EventUpdateTask = "updateTask"
	EventDeleteTask = "deleteTask"
)

// Broadcast directs the relay to emit a real-time event after a successful
// task mutation. It is an explicit return value: nil means nothing to emit.
type Broadcast struct {
	Event   string
	Payload *domain.Task
}

// CreateTaskInput carries a task creation request. Status defaults to
// pending when empty.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
}

type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, *Broadcast, error)
	Update(ctx context.Context, id string, update TaskUpdate) (*domain.Task, *Broadcast, error)
	Delete(ctx context.Context, id string) (*domain.Task, *Broadcast, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
}
