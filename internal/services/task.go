package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

const tasksPath = "tasks"

var ErrTaskNotFound = errors.New("task not found")

type TaskFilter struct {
	Search   string
	Status   string
	Priority string
}

type TaskInput struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
}

type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	DueDate     *string
	Version     int64
}

type TaskStats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

type TaskService struct {
	store store.Store
	now   clock
}

func NewTaskService(s store.Store) *TaskService {
	return &TaskService{store: s, now: time.Now}
}

// List returns the caller's tasks, newest first.
func (s *TaskService) List(ctx context.Context, session Session, filter TaskFilter) ([]models.Task, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.Task, 0)
	for _, t := range tasks {
		if t.UserID != session.UserID {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && filter.Priority != "all" && t.Priority != filter.Priority {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ListAll returns every task, newest first.
func (s *TaskService) ListAll(ctx context.Context) ([]models.Task, error) {
	tasks, err := list[models.Task](ctx, s.store, tasksPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks, nil
}

func (s *TaskService) Stats(ctx context.Context, session Session) (*TaskStats, error) {
	tasks, err := s.List(ctx, session, TaskFilter{})
	if err != nil {
		return nil, err
	}
	return countTasks(tasks), nil
}

func countTasks(tasks []models.Task) *TaskStats {
	stats := &TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusTodo:
			stats.Todo++
		case models.TaskStatusInProgress:
			stats.InProgress++
		case models.TaskStatusCompleted:
			stats.Completed++
		}
	}
	return stats
}

func (s *TaskService) Create(ctx context.Context, session Session, in TaskInput) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidf("title is required")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.Status == "" {
		in.Status = models.TaskStatusTodo
	}
	if !models.ValidPriority(in.Priority) {
		return nil, invalidf("unknown priority %q", in.Priority)
	}
	if !models.ValidTaskStatus(in.Status) {
		return nil, invalidf("unknown status %q", in.Status)
	}
	if in.DueDate != "" && !validDate(in.DueDate) {
		return nil, invalidf("due date must be YYYY-MM-DD")
	}

	now := s.now().UTC()
	return create(ctx, s.store, tasksPath, &models.Task{
		UserID:      session.UserID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *TaskService) Update(ctx context.Context, session Session, id string, upd TaskUpdate) (*models.Task, error) {
	if _, err := s.owned(ctx, session, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, invalidf("title is required")
		}
		fields["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Priority != nil {
		if !models.ValidPriority(*upd.Priority) {
			return nil, invalidf("unknown priority %q", *upd.Priority)
		}
		fields["priority"] = *upd.Priority
	}
	if upd.Status != nil {
		if !models.ValidTaskStatus(*upd.Status) {
			return nil, invalidf("unknown status %q", *upd.Status)
		}
		fields["status"] = *upd.Status
	}
	if upd.DueDate != nil {
		if *upd.DueDate != "" && !validDate(*upd.DueDate) {
			return nil, invalidf("due date must be YYYY-MM-DD")
		}
		fields["dueDate"] = *upd.DueDate
	}
	if len(fields) == 0 {
		return nil, store.ErrNoFieldsToUpdate
	}
	fields["updatedAt"] = s.now().UTC()

	return patch[models.Task](ctx, s.store, store.Join(tasksPath, id), fields, upd.Version, ErrTaskNotFound)
}

// ToggleStatus flips a completed task back to todo and anything else to
// completed.
func (s *TaskService) ToggleStatus(ctx context.Context, session Session, id string, expectedVersion int64) (*models.Task, error) {
	task, err := s.owned(ctx, session, id)
	if err != nil {
		return nil, err
	}

	next := models.TaskStatusCompleted
	if task.Status == models.TaskStatusCompleted {
		next = models.TaskStatusTodo
	}
	return patch[models.Task](ctx, s.store, store.Join(tasksPath, id), map[string]any{
		"status":    next,
		"updatedAt": s.now().UTC(),
	}, expectedVersion, ErrTaskNotFound)
}

func (s *TaskService) Delete(ctx context.Context, session Session, id string) error {
	if _, err := s.owned(ctx, session, id); err != nil {
		return err
	}
	return remove(ctx, s.store, store.Join(tasksPath, id))
}

func (s *TaskService) owned(ctx context.Context, session Session, id string) (*models.Task, error) {
	task, err := load[models.Task](ctx, s.store, store.Join(tasksPath, id), ErrTaskNotFound)
	if err != nil {
		return nil, err
	}
	if task.UserID != session.UserID {
		return nil, ErrForbidden
	}
	return task, nil
}
