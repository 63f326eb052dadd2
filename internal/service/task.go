package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskdesk/taskdesk/internal/metrics"
	"github.com/taskdesk/taskdesk/internal/model"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/validation"
)

// Task service errors.
var (
	ErrUnknownUser  = errors.New("user does not exist")
	ErrTaskNotFound = errors.New("task not found")
)

// TaskService handles task business logic.
type TaskService struct {
	store   *store.Store
	metrics metrics.Recorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(st *store.Store, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		store:   st,
		metrics: recorder,
	}
}

// CreateTaskInput defines input for creating a task.
// Priority defaults to model.PriorityDefault when nil.
type CreateTaskInput struct {
	UserID      string
	Title       string
	Description *string
	Priority    *int
	Status      string
	DueDate     time.Time
}

// Create validates the input, verifies the referenced user exists, and
// persists a new task.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, &validation.Error{Field: "user_id", Message: "is required"}
	}

	title, err := validation.Title(input.Title)
	if err != nil {
		return nil, err
	}

	priority := model.PriorityDefault
	if input.Priority != nil {
		if err := validation.Priority(*input.Priority); err != nil {
			return nil, err
		}
		priority = *input.Priority
	}

	status, err := validation.Status(input.Status)
	if err != nil {
		return nil, err
	}

	// One instant per create: the future check and both timestamps agree.
	now := time.Now().UTC()

	due, err := validation.DueDate(input.DueDate, now)
	if err != nil {
		return nil, err
	}

	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: validation.Description(input.Description),
		Priority:    priority,
		Status:      status,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	start := time.Now()
	err = s.store.Update(func(doc *store.Document) error {
		userExists := false
		for _, user := range doc.Users {
			if user.ID == userID {
				userExists = true
				break
			}
		}
		if !userExists {
			return ErrUnknownUser
		}
		doc.Tasks = append(doc.Tasks, task)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return nil, err
		}
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.metrics.IncTaskCreated()
	s.metrics.ObserveSaveDuration(time.Since(start))

	return &task, nil
}

// List returns all tasks in store (insertion) order.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return doc.Tasks, nil
}

// UpdateTaskInput defines a partial update. Nil fields are left untouched.
// A description that trims to empty clears the stored description.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *int
	Status      *string
	DueDate     *time.Time
}

// Update validates the supplied fields, applies them to the task with the
// given id, and refreshes updated_at. Fields absent from the input retain
// their prior values.
func (s *TaskService) Update(ctx context.Context, id string, input UpdateTaskInput) (*model.Task, error) {
	var (
		title  string
		status model.TaskStatus
		due    time.Time
		err    error
	)

	now := time.Now().UTC()

	if input.Title != nil {
		if title, err = validation.Title(*input.Title); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil {
		if err := validation.Priority(*input.Priority); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if status, err = validation.Status(*input.Status); err != nil {
			return nil, err
		}
	}
	if input.DueDate != nil {
		if due, err = validation.DueDate(*input.DueDate, now); err != nil {
			return nil, err
		}
	}

	var updated *model.Task
	start := time.Now()
	err = s.store.Update(func(doc *store.Document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID != id {
				continue
			}
			task := &doc.Tasks[i]
			if input.Title != nil {
				task.Title = title
			}
			if input.Description != nil {
				task.Description = validation.Description(input.Description)
			}
			if input.Priority != nil {
				task.Priority = *input.Priority
			}
			if input.Status != nil {
				task.Status = status
			}
			if input.DueDate != nil {
				task.DueDate = due
			}
			task.UpdatedAt = now
			updated = task
			return nil
		}
		return ErrTaskNotFound
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.metrics.IncTaskUpdated()
	s.metrics.ObserveSaveDuration(time.Since(start))

	// Copy so the caller does not alias the document slice.
	result := *updated
	return &result, nil
}

// Delete removes the task with the given id, or returns ErrTaskNotFound.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.store.Update(func(doc *store.Document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID == id {
				doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrTaskNotFound
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.metrics.IncTaskDeleted()
	s.metrics.ObserveSaveDuration(time.Since(start))

	return nil
}
