package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskdesk/taskdesk/internal/metrics"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/validation"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return st
}

func TestUserService_Create_NormalizesInput(t *testing.T) {
	recorder := metrics.NewInMemory()
	svc := NewUserService(newTestStore(t), recorder)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name:  " Ann ",
		Email: "ANN@X.COM",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.Name != "Ann" {
		t.Errorf("expected trimmed name, got %q", user.Name)
	}
	if user.Email != "ann@x.com" {
		t.Errorf("expected lower-cased email, got %q", user.Email)
	}
	if user.ID == "" {
		t.Error("expected generated id")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	snap := recorder.Snapshot()
	if snap.UsersCreated != 1 {
		t.Errorf("expected 1 user created metric, got %d", snap.UsersCreated)
	}
	if snap.SavesObserved != 1 {
		t.Errorf("expected 1 save observation, got %d", snap.SavesObserved)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc := NewUserService(newTestStore(t), nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateUserInput{Name: "Ann", Email: "ann@x.com"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Same address with different case and padding must collide.
	_, err := svc.Create(ctx, CreateUserInput{Name: "Other", Email: "  Ann@X.Com "})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected rejected create to leave 1 user, got %d", len(users))
	}
}

func TestUserService_Create_ValidationErrors(t *testing.T) {
	svc := NewUserService(newTestStore(t), nil)

	tests := []struct {
		name      string
		input     CreateUserInput
		wantField string
	}{
		{"empty_name", CreateUserInput{Name: "   ", Email: "ann@x.com"}, "name"},
		{"short_name", CreateUserInput{Name: "A", Email: "ann@x.com"}, "name"},
		{"bad_email", CreateUserInput{Name: "Ann", Email: "not-an-email"}, "email"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), test.input)
			var vErr *validation.Error
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if vErr.Field != test.wantField {
				t.Errorf("expected field %q, got %q", test.wantField, vErr.Field)
			}
		})
	}
}

func TestUserService_ListAndGet(t *testing.T) {
	svc := NewUserService(newTestStore(t), nil)
	ctx := context.Background()

	emails := []string{"a@x.com", "b@x.com", "c@x.com"}
	ids := make([]string, 0, len(emails))
	for _, email := range emails {
		user, err := svc.Create(ctx, CreateUserInput{Name: "User", Email: email})
		if err != nil {
			t.Fatalf("Create(%s): %v", email, err)
		}
		ids = append(ids, user.ID)
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != len(emails) {
		t.Fatalf("expected %d users, got %d", len(emails), len(users))
	}
	// Insertion order is preserved.
	for i, email := range emails {
		if users[i].Email != email {
			t.Errorf("position %d: expected %s, got %s", i, email, users[i].Email)
		}
	}

	got, err := svc.GetByID(ctx, ids[1])
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "b@x.com" {
		t.Errorf("expected b@x.com, got %s", got.Email)
	}

	if _, err := svc.GetByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	recorder := metrics.NewInMemory()
	svc := NewUserService(newTestStore(t), recorder)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{Name: "Ann", Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := recorder.Snapshot().UsersDeleted; got != 1 {
		t.Errorf("expected 1 user deleted metric, got %d", got)
	}

	// Deleting again reports not found without corrupting the store.
	if err := svc.Delete(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on repeat delete, got %v", err)
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty user list, got %d", len(users))
	}
}

func TestUserService_Delete_LeavesTasksOrphaned(t *testing.T) {
	st := newTestStore(t)
	users := NewUserService(st, nil)
	tasks := NewTaskService(st, nil)
	ctx := context.Background()

	owner, err := users.Create(ctx, CreateUserInput{Name: "Ann", Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	due := time.Now().UTC().Add(24 * time.Hour)
	for _, title := range []string{"first task", "second task"} {
		if _, err := tasks.Create(ctx, CreateTaskInput{
			UserID:  owner.ID,
			Title:   title,
			Status:  "pending",
			DueDate: due,
		}); err != nil {
			t.Fatalf("create task %q: %v", title, err)
		}
	}

	if err := users.Delete(ctx, owner.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	remaining, err := tasks.List(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected both tasks to survive user deletion, got %d", len(remaining))
	}
	for _, task := range remaining {
		if task.UserID != owner.ID {
			t.Errorf("expected orphaned task to keep user_id %s, got %s", owner.ID, task.UserID)
		}
	}
}
