package model

import "time"

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// IsValid checks if the status is one of the known literals.
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress || s == TaskStatusDone
}

// Task priority bounds. 1 is the highest priority, 5 the lowest.
const (
	PriorityHighest = 1
	PriorityDefault = 3
	PriorityLowest  = 5
)

// Task represents a unit of work assigned to a user.
//
// UserID references an existing user at creation time and is never
// reassigned. Deleting the user leaves the reference dangling on purpose.
// Description is nil when absent; an empty or whitespace-only description
// is normalized to nil before storage.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    int        `json:"priority"`
	Status      TaskStatus `json:"status"`
	DueDate     time.Time  `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
