// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskdesk/taskdesk/internal/metrics"
	"github.com/taskdesk/taskdesk/internal/model"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/validation"
)

// User service errors.
var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
)

// UserService handles user business logic.
type UserService struct {
	store   *store.Store
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   st,
		metrics: recorder,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name  string
	Email string
}

// Create validates the input, enforces email uniqueness, and persists a
// new user. Email comparison is done on the normalized (trimmed,
// lower-cased) form, so the check is effectively case-insensitive.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	name, err := validation.Name(input.Name)
	if err != nil {
		return nil, err
	}
	email, err := validation.Email(input.Email)
	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	start := time.Now()
	err = s.store.Update(func(doc *store.Document) error {
		for _, existing := range doc.Users {
			if existing.Email == email {
				return ErrDuplicateEmail
			}
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserCreated()
	s.metrics.ObserveSaveDuration(time.Since(start))

	return &user, nil
}

// List returns all users in store (insertion) order.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return doc.Users, nil
}

// GetByID returns the user with the given id, or ErrUserNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			return &doc.Users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// Delete removes the user with the given id, or returns ErrUserNotFound.
// Tasks referencing the user are left untouched; dangling user_id
// references are allowed.
func (s *UserService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.store.Update(func(doc *store.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == id {
				doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
				return nil
			}
		}
		return ErrUserNotFound
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.metrics.IncUserDeleted()
	s.metrics.ObserveSaveDuration(time.Since(start))

	return nil
}
