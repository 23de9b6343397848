package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/internal/store"
)

// Fixtures provides factory methods for creating test data in a store
type Fixtures struct {
	store   store.Store
	users   *services.UserService
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(s store.Store) *Fixtures {
	return &Fixtures{store: s, users: services.NewUserService(s, nil)}
}

// CreateUser signs in a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	id := &models.Identity{
		UID:         fmt.Sprintf("uid-%d", f.counter),
		Email:       fmt.Sprintf("user%d@example.com", f.counter),
		DisplayName: fmt.Sprintf("Test User %d", f.counter),
	}
	for _, opt := range opts {
		opt(id)
	}

	user, err := f.users.SignIn(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// UserOption allows customizing test users
type UserOption func(*models.Identity)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(id *models.Identity) {
		id.Email = email
	}
}

// WithName sets the user's display name
func WithName(name string) UserOption {
	return func(id *models.Identity) {
		id.DisplayName = name
	}
}

// CreateTask creates a task owned by userID
func (f *Fixtures) CreateTask(t *testing.T, userID, title string) *models.Task {
	t.Helper()

	task, err := services.NewTaskService(f.store).Create(context.Background(),
		services.NewSession(userID, "", models.RoleEmployee),
		services.TaskInput{Title: title, Priority: models.PriorityMedium})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}
