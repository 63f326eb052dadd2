// Package validation applies field-level constraint checks and
// normalization to inbound create and update payloads before they reach
// the store. Every rule failure carries the offending field name so the
// HTTP layer can report it to the client.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskdesk/taskdesk/internal/model"
)

// Field length bounds, in runes, measured after trimming.
const (
	MinNameLength  = 2
	MaxNameLength  = 100
	MinTitleLength = 3
	MaxTitleLength = 200
)

// emailPattern is a pragmatic syntactic check: one @, a non-empty local
// part, and a dotted domain. Deliverability is not verified.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Error reports a violated field constraint.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

func fieldError(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Name trims and validates a user name, returning the normalized value.
func Name(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fieldError("name", "cannot be empty or whitespace")
	}
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return "", fieldError("name", "must be between %d and %d characters", MinNameLength, MaxNameLength)
	}
	return name, nil
}

// Email trims, lower-cases, and syntactically validates an email address.
// The normalized form is used for both storage and uniqueness comparison.
func Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fieldError("email", "cannot be empty")
	}
	if !emailPattern.MatchString(email) {
		return "", fieldError("email", "must be a valid email address")
	}
	return email, nil
}

// Title trims and validates a task title, returning the normalized value.
func Title(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fieldError("title", "cannot be empty or whitespace")
	}
	if n := utf8.RuneCountInString(title); n < MinTitleLength || n > MaxTitleLength {
		return "", fieldError("title", "must be between %d and %d characters", MinTitleLength, MaxTitleLength)
	}
	return title, nil
}

// Description trims an optional description. A value that is empty after
// trimming becomes absent (nil) rather than an error.
func Description(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Priority validates a task priority.
func Priority(p int) error {
	if p < model.PriorityHighest || p > model.PriorityLowest {
		return fieldError("priority", "must be between %d and %d", model.PriorityHighest, model.PriorityLowest)
	}
	return nil
}

// Status validates a task status literal.
func Status(raw string) (model.TaskStatus, error) {
	status := model.TaskStatus(raw)
	if !status.IsValid() {
		return "", fieldError("status", "must be one of %q, %q, %q",
			model.TaskStatusPending, model.TaskStatusInProgress, model.TaskStatusDone)
	}
	return status, nil
}

// DueDate validates that a due date is strictly in the future relative to
// now, compared in UTC.
func DueDate(due, now time.Time) (time.Time, error) {
	due = due.UTC()
	if !due.After(now.UTC()) {
		return time.Time{}, fieldError("due_date", "must be a future datetime")
	}
	return due, nil
}

// timestampLayouts are the accepted due_date formats. Naive layouts (no
// offset) are interpreted as UTC.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339Nano, false},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05.999999999", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", true},
}

// ParseTimestamp parses a timestamp string, treating timezone-naive values
// as UTC. A bare date resolves to midnight UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, l := range timestampLayouts {
		if l.naive {
			if t, err := time.ParseInLocation(l.layout, value, time.UTC); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.Parse(l.layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fieldError("due_date", "must be a valid timestamp")
}
