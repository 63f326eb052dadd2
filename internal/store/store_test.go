package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/taskdesk/taskdesk/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage", "data.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNew_SeedsDataFile(t *testing.T) {
	s := newTestStore(t)

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("expected seeded data file, got %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty seed document")
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Users == nil || doc.Tasks == nil {
		t.Fatal("expected non-nil collections in empty document")
	}
	if len(doc.Users) != 0 || len(doc.Tasks) != 0 {
		t.Fatalf("expected empty collections, got %d users, %d tasks", len(doc.Users), len(doc.Tasks))
	}
}

func TestNew_MissingPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.Remove(s.Path()); err != nil {
		t.Fatalf("remove data file: %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("expected self-healing load, got %v", err)
	}
	if len(doc.Users) != 0 || len(doc.Tasks) != 0 {
		t.Fatal("expected empty document for missing file")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("expected self-healing load, got %v", err)
	}
	if len(doc.Users) != 0 || len(doc.Tasks) != 0 {
		t.Fatal("expected empty document for corrupt file")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	desc := "write the report"
	now := time.Now().UTC().Truncate(time.Second)
	doc := &Document{
		Users: []model.User{
			{ID: "u1", Name: "Ann", Email: "ann@x.com", CreatedAt: now},
		},
		Tasks: []model.Task{
			{
				ID:          "t1",
				UserID:      "u1",
				Title:       "report",
				Description: &desc,
				Priority:    2,
				Status:      model.TaskStatusPending,
				DueDate:     now.Add(24 * time.Hour),
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		},
	}

	if err := s.Save(doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(loaded.Users) != 1 || len(loaded.Tasks) != 1 {
		t.Fatalf("expected 1 user and 1 task, got %d/%d", len(loaded.Users), len(loaded.Tasks))
	}

	user := loaded.Users[0]
	if user.ID != "u1" || user.Name != "Ann" || user.Email != "ann@x.com" {
		t.Errorf("unexpected user after round trip: %+v", user)
	}
	if !user.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, user.CreatedAt)
	}

	task := loaded.Tasks[0]
	if task.Description == nil || *task.Description != desc {
		t.Errorf("unexpected description after round trip: %v", task.Description)
	}
	if !task.DueDate.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("unexpected due_date after round trip: %v", task.DueDate)
	}
	if task.Status != model.TaskStatusPending {
		t.Errorf("unexpected status after round trip: %v", task.Status)
	}
}

func TestSave_NilCollectionsSerializeAsArrays(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(&Document{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	if string(data) == "" {
		t.Fatal("expected document content")
	}
	for _, forbidden := range []string{`"users": null`, `"tasks": null`} {
		if strings.Contains(string(data), forbidden) {
			t.Errorf("document contains %s", forbidden)
		}
	}
}

func TestUpdate_PersistsMutation(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(doc *Document) error {
		doc.Users = append(doc.Users, model.User{ID: "u1", Name: "Ann", Email: "ann@x.com", CreatedAt: time.Now().UTC()})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Users) != 1 {
		t.Fatalf("expected 1 user after update, got %d", len(doc.Users))
	}
}

func TestUpdate_MutatorErrorLeavesFileUntouched(t *testing.T) {
	s := newTestStore(t)

	if err := s.Update(func(doc *Document) error {
		doc.Users = append(doc.Users, model.User{ID: "u1"})
		return nil
	}); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	wantErr := errors.New("rejected")
	err := s.Update(func(doc *Document) error {
		doc.Users = nil
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected mutator error, got %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Users) != 1 {
		t.Fatalf("expected rejected mutation to not persist, got %d users", len(doc.Users))
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Ping(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
