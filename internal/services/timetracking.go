package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

const timeTrackingPath = "timeTracking"

var (
	ErrTimeTaskNotFound = errors.New("time tracking task not found")
	ErrTimeLogNotFound  = errors.New("time log not found")
)

// defaultTimeTasks are written for a user whose task list is empty.
var defaultTimeTasks = []string{"Develop Dashboard UI", "Fix Login Bug", "Design New Page"}

// TimeTrackingService keeps each user's personal tasks and logged hours under
// timeTracking/{uid}. Only the user reaches their own subtree.
type TimeTrackingService struct {
	store store.Store
	now   clock
}

func NewTimeTrackingService(s store.Store) *TimeTrackingService {
	return &TimeTrackingService{store: s, now: time.Now}
}

func timeTasksPath(uid string) string { return store.Join(timeTrackingPath, uid, "tasks") }
func timeLogsPath(uid string) string  { return store.Join(timeTrackingPath, uid, "logs") }

// Tasks returns the user's tasks, writing the defaults first when the subtree
// holds no records at all.
func (s *TimeTrackingService) Tasks(ctx context.Context, uid string) ([]models.TimeTask, error) {
	snap, err := s.store.List(ctx, timeTasksPath(uid))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", timeTasksPath(uid), err)
	}
	if len(snap.Records) > 0 {
		return models.DecodeAll[models.TimeTask](snap), nil
	}

	tasks := make([]models.TimeTask, 0, len(defaultTimeTasks))
	for i, name := range defaultTimeTasks {
		path := store.Join(timeTasksPath(uid), strconv.Itoa(i+1))
		task := models.TimeTask{Name: name}
		rec, err := s.store.Set(ctx, path, task)
		if err != nil {
			return nil, logWriteErr("seed", path, err)
		}
		task.SetMeta(rec.Key, rec.Version)
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *TimeTrackingService) AddTask(ctx context.Context, uid, name string) (*models.TimeTask, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("task name is required")
	}
	return create(ctx, s.store, timeTasksPath(uid), &models.TimeTask{Name: name})
}

func (s *TimeTrackingService) ToggleTask(ctx context.Context, uid, id string) (*models.TimeTask, error) {
	path := store.Join(timeTasksPath(uid), id)
	task, err := load[models.TimeTask](ctx, s.store, path, ErrTimeTaskNotFound)
	if err != nil {
		return nil, err
	}
	return patch[models.TimeTask](ctx, s.store, path, map[string]any{"done": !task.Done}, task.Version, ErrTimeTaskNotFound)
}

func (s *TimeTrackingService) DeleteTask(ctx context.Context, uid, id string) error {
	path := store.Join(timeTasksPath(uid), id)
	if _, err := load[models.TimeTask](ctx, s.store, path, ErrTimeTaskNotFound); err != nil {
		return err
	}
	return remove(ctx, s.store, path)
}

// Logs returns the user's time logs in the order they were logged.
func (s *TimeTrackingService) Logs(ctx context.Context, uid string) ([]models.TimeLog, error) {
	return list[models.TimeLog](ctx, s.store, timeLogsPath(uid))
}

// AddLog records hours against one of the user's tasks. The log keeps the
// task name, so it survives the task being deleted.
func (s *TimeTrackingService) AddLog(ctx context.Context, uid, taskID string, hours float64) (*models.TimeLog, error) {
	if hours <= 0 || hours > 24 {
		return nil, invalidf("hours must be between 0 and 24")
	}
	task, err := load[models.TimeTask](ctx, s.store, store.Join(timeTasksPath(uid), taskID), ErrTimeTaskNotFound)
	if err != nil {
		return nil, err
	}
	return create(ctx, s.store, timeLogsPath(uid), &models.TimeLog{
		Task:  task.Name,
		Hours: models.Hours(hours),
		Date:  s.now().UTC().Format(time.RFC3339),
	})
}

func (s *TimeTrackingService) ToggleLog(ctx context.Context, uid, id string) (*models.TimeLog, error) {
	path := store.Join(timeLogsPath(uid), id)
	l, err := load[models.TimeLog](ctx, s.store, path, ErrTimeLogNotFound)
	if err != nil {
		return nil, err
	}
	return patch[models.TimeLog](ctx, s.store, path, map[string]any{"done": !l.Done}, l.Version, ErrTimeLogNotFound)
}

func (s *TimeTrackingService) DeleteLog(ctx context.Context, uid, id string) error {
	path := store.Join(timeLogsPath(uid), id)
	if _, err := load[models.TimeLog](ctx, s.store, path, ErrTimeLogNotFound); err != nil {
		return err
	}
	return remove(ctx, s.store, path)
}

func TotalHours(logs []models.TimeLog) float64 {
	var total float64
	for _, l := range logs {
		total += float64(l.Hours)
	}
	return total
}
