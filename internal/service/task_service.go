package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/platform/logger"
	"github.com/kestrel-dev/shelf-api/internal/query"
)

// TaskRepository defines the task persistence the service needs.
// *store.Repository[domain.Task] satisfies it.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) error
	Get(ctx context.Context, id uuid.UUID) (domain.Task, error)
	Update(ctx context.Context, task domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, b query.Builder) ([]query.Document, query.Summary, error)
}

// TaskInput holds the fields of a new task.
type TaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// TaskService provides task management operations
type TaskService interface {
	// CreateTask validates and stores a new task.
	CreateTask(ctx context.Context, in TaskInput) (*domain.Task, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// UpdateTask applies a partial update to an existing task.
	UpdateTask(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// ListTasks runs a list query built from request parameters.
	ListTasks(ctx context.Context, b query.Builder) ([]query.Document, query.Summary, error)
}

type taskServiceImpl struct {
	repo   TaskRepository
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if the repository is nil.
func NewTaskService(repo TaskRepository, logger *slog.Logger) (TaskService, error) {
	if repo == nil {
		return nil, NewServiceError("task", "init", "repository cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		repo:   repo,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, in TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(in.Title, in.Description, in.Priority, in.DueDate)
	if err != nil {
		log.Debug("invalid task", slog.String("error", err.Error()))
		return nil, NewServiceError("task", "create", "invalid task", err)
	}

	if err := s.repo.Create(ctx, *task); err != nil {
		log.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, NewServiceError("task", "create", "failed to save task", err)
	}

	log.Info("task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, NewServiceError("task", "get", "failed to retrieve task", err)
	}
	return &task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, NewServiceError("task", "update", "failed to retrieve task", err)
	}

	if err := task.Apply(patch); err != nil {
		log.Debug("invalid task update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, NewServiceError("task", "update", "invalid task update", err)
	}

	if err := s.repo.Update(ctx, task); err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, NewServiceError("task", "update", "failed to save task", err)
	}

	log.Debug("task updated", slog.String("task_id", id.String()))
	return &task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.repo.Delete(ctx, id); err != nil {
		return NewServiceError("task", "delete", "failed to delete task", err)
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	b query.Builder,
) ([]query.Document, query.Summary, error) {
	docs, summary, err := s.repo.List(ctx, b)
	if err != nil {
		if !query.IsInvalidParams(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
				slog.String("error", err.Error()))
		}
		return nil, query.Summary{}, NewServiceError("task", "list", "failed to list tasks", err)
	}
	return docs, summary, nil
}
