package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTimeTrackingService(t *testing.T) *TimeTrackingService {
	t.Helper()
	svc := NewTimeTrackingService(store.NewMemoryStore(nil))
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestTimeTrackingService_Tasks_SeedsDefaults(t *testing.T) {
	svc := setupTimeTrackingService(t)
	ctx := context.Background()

	tasks, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Develop Dashboard UI", tasks[0].Name)
	assert.Equal(t, "1", tasks[0].ID)

	again, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, again, 3, "defaults are written once")

	other, err := svc.Tasks(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 3)
}

func TestTimeTrackingService_TaskLifecycle(t *testing.T) {
	svc := setupTimeTrackingService(t)
	ctx := context.Background()

	task, err := svc.AddTask(ctx, "u1", "  Write tests ")
	require.NoError(t, err)
	assert.Equal(t, "Write tests", task.Name)
	assert.False(t, task.Done)

	toggled, err := svc.ToggleTask(ctx, "u1", task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)

	toggled, err = svc.ToggleTask(ctx, "u1", task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Done)

	_, err = svc.ToggleTask(ctx, "u2", task.ID)
	assert.ErrorIs(t, err, ErrTimeTaskNotFound, "another user's subtree is not reachable")

	require.NoError(t, svc.DeleteTask(ctx, "u1", task.ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, "u1", task.ID), ErrTimeTaskNotFound)

	_, err = svc.AddTask(ctx, "u1", " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTimeTrackingService_Logs(t *testing.T) {
	svc := setupTimeTrackingService(t)
	ctx := context.Background()

	tasks, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)

	first, err := svc.AddLog(ctx, "u1", tasks[1].ID, 1.5)
	require.NoError(t, err)
	assert.Equal(t, "Fix Login Bug", first.Task)
	assert.Equal(t, "2026-03-10T09:00:00Z", first.Date)

	_, err = svc.AddLog(ctx, "u1", tasks[0].ID, 2)
	require.NoError(t, err)

	_, err = svc.AddLog(ctx, "u1", tasks[0].ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddLog(ctx, "u1", "nope", 1)
	assert.ErrorIs(t, err, ErrTimeTaskNotFound)

	done, err := svc.ToggleLog(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.True(t, done.Done)

	logs, err := svc.Logs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, first.ID, logs[0].ID)
	assert.InDelta(t, 3.5, TotalHours(logs), 1e-9)

	require.NoError(t, svc.DeleteLog(ctx, "u1", first.ID))
	logs, err = svc.Logs(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestTotalHours_Empty(t *testing.T) {
	assert.Zero(t, TotalHours([]models.TimeLog{}))
}

// rawStore serves records as another client wrote them, bypassing the field
// normalization the real stores apply on write.
type rawStore struct {
	store.Store
	records map[string][]store.Record
	sets    []string
}

func (s *rawStore) List(ctx context.Context, path string) (store.Snapshot, error) {
	if recs, ok := s.records[path]; ok {
		return store.Snapshot{Path: path, Records: recs}, nil
	}
	return s.Store.List(ctx, path)
}

func (s *rawStore) Set(ctx context.Context, path string, value any) (*store.Record, error) {
	s.sets = append(s.sets, path)
	return s.Store.Set(ctx, path, value)
}

func TestTimeTrackingService_Tasks_KeepsLegacyRecords(t *testing.T) {
	st := &rawStore{
		Store: store.NewMemoryStore(nil),
		records: map[string][]store.Record{
			"timeTracking/u1/tasks": {
				{Path: "timeTracking/u1/tasks/1", Key: "1", Version: 1, Data: json.RawMessage(`{"id":1741600000000,"name":"Ship release","done":true}`)},
				{Path: "timeTracking/u1/tasks/2", Key: "2", Version: 1, Data: json.RawMessage(`"not a task"`)},
			},
		},
	}
	svc := NewTimeTrackingService(st)

	tasks, err := svc.Tasks(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "Ship release", tasks[0].Name)
	assert.True(t, tasks[0].Done)
	assert.Empty(t, st.sets, "a non-empty task list is never reseeded")
}

func TestTimeTrackingService_Logs_StringHours(t *testing.T) {
	st := &rawStore{
		Store: store.NewMemoryStore(nil),
		records: map[string][]store.Record{
			"timeTracking/u1/logs": {
				{Path: "timeTracking/u1/logs/a", Key: "a", Version: 1, Data: json.RawMessage(`{"id":17,"task":"Fix Login Bug","hours":"2","date":"2026-03-10","done":false}`)},
				{Path: "timeTracking/u1/logs/b", Key: "b", Version: 1, Data: json.RawMessage(`{"task":"Design New Page","hours":1.5,"date":"2026-03-11"}`)},
			},
		},
	}
	svc := NewTimeTrackingService(st)

	logs, err := svc.Logs(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "a", logs[0].ID)
	assert.Equal(t, models.Hours(2), logs[0].Hours)
	assert.InDelta(t, 3.5, TotalHours(logs), 0.001)
}
