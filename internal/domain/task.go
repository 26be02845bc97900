package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskPriority ranks how urgent a task is.
type TaskPriority string

// Possible task priorities
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task validation errors
var (
	ErrEmptyTaskID         = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle      = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrInvalidTaskPriority = fmt.Errorf("%w: task priority must be low, medium or high", ErrValidation)
)

// Task is a unit of work tracked by the task manager.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	IsCompleted bool         `json:"isCompleted"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewTask creates a pending task with a fresh ID and timestamps.
// Returns an error if validation fails.
func NewTask(title, description string, priority TaskPriority, dueDate *time.Time) (*Task, error) {
	ts := now()
	task := &Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Priority:    priority,
		DueDate:     normalizeDate(dueDate),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}
	if !t.Priority.Valid() {
		return ErrInvalidTaskPriority
	}
	return nil
}

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// TaskPatch lists the task fields a partial update may change.
// Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *TaskPriority
	DueDate     *time.Time
	ClearDue    bool
	IsCompleted *bool
}

// Apply updates the task with the non-nil fields of p and validates the
// result. The task is left unchanged when validation fails.
func (t *Task) Apply(p TaskPatch) error {
	next := *t
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Priority != nil {
		next.Priority = *p.Priority
	}
	if p.ClearDue {
		next.DueDate = nil
	} else if p.DueDate != nil {
		next.DueDate = normalizeDate(p.DueDate)
	}
	if p.IsCompleted != nil {
		next.IsCompleted = *p.IsCompleted
	}

	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now()
	*t = next
	return nil
}

// EntityID implements store.Entity.
func (t Task) EntityID() uuid.UUID { return t.ID }

// EntityCreatedAt implements store.Entity.
func (t Task) EntityCreatedAt() time.Time { return t.CreatedAt }

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(time.Second)
	return &v
}
