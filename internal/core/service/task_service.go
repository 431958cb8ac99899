package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 1000
)

// TaskService implements task CRUD. Every successful mutation returns a
// Broadcast value naming the real-time event to emit; reads and failed
// mutations return nil.
type TaskService struct {
	repo   ports.TaskRepository
	logger zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, *ports.Broadcast, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, nil, domain.NewValidationError("status must be one of: pending, in_progress, completed")
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, nil, err
	}
	s.logger.Info().Str("task_id", created.ID).Str("title", created.Title).Msg("task created")

	return created, &ports.Broadcast{Event: ports.EventAddTask, Payload: created}, nil
}

func (s *TaskService) Update(ctx context.Context, id string, update ports.TaskUpdate) (*domain.Task, *ports.Broadcast, error) {
	if update.Title != nil {
		if err := validateTitle(*update.Title); err != nil {
			return nil, nil, err
		}
	}
	if update.Description != nil {
		if err := validateDescription(*update.Description); err != nil {
			return nil, nil, err
		}
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, nil, domain.NewValidationError("status must be one of: pending, in_progress, completed")
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info().Str("task_id", updated.ID).Str("status", string(updated.Status)).Msg("task updated")

	return updated, &ports.Broadcast{Event: ports.EventUpdateTask, Payload: updated}, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) (*domain.Task, *ports.Broadcast, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info().Str("task_id", deleted.ID).Msg("task deleted")

	return deleted, &ports.Broadcast{Event: ports.EventDeleteTask, Payload: deleted}, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	return s.repo.List(ctx)
}

func validateTitle(title string) error {
	if title == "" {
		return domain.NewValidationError("title is required")
	}
	if len(title) > maxTitleLength {
		return domain.NewValidationError("title must be at most 100 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return domain.NewValidationError("description is required")
	}
	if len(description) > maxDescriptionLength {
		return domain.NewValidationError("description must be at most 1000 characters")
	}
	return nil
}
