package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/dimitrije/officehub/tests/testutil"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTaskTest(session services.Session) (*testutil.MockTaskService, http.Handler) {
	mockTaskService := new(testutil.MockTaskService)
	handler := NewTaskHandler(mockTaskService)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(asUser(session))
	app.Get("/tasks", handler.List)
	app.Get("/tasks/stats", handler.Stats)
	app.Post("/tasks", handler.Create)
	app.Patch("/tasks/:id", handler.Update)
	app.Post("/tasks/:id/toggle", handler.Toggle)
	app.Delete("/tasks/:id", handler.Delete)
	return mockTaskService, app
}

func TestTaskHandler_List_PassesFilter(t *testing.T) {
	mockTaskService, app := setupTaskTest(employee)

	filter := services.TaskFilter{Search: "report", Status: models.TaskStatusTodo, Priority: models.PriorityHigh}
	mockTaskService.On("List", mock.Anything, employee, filter).Return([]models.Task{
		{Meta: models.Meta{ID: "t1", Version: 2}, Title: "Quarterly report"},
	}, nil)

	rec := doJSON(t, app, http.MethodGet, "/tasks?search=report&status=todo&priority=high", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	tasks := decodeBody[[]models.Task](t, rec)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, int64(2), tasks[0].Version)
	mockTaskService.AssertExpectations(t)
}

func TestTaskHandler_Stats(t *testing.T) {
	mockTaskService, app := setupTaskTest(employee)

	mockTaskService.On("Stats", mock.Anything, employee).Return(&services.TaskStats{Total: 4, Todo: 2, InProgress: 1, Completed: 1}, nil)

	rec := doJSON(t, app, http.MethodGet, "/tasks/stats", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":4,"todo":2,"inProgress":1,"completed":1}`, rec.Body.String())
}

func TestTaskHandler_Create(t *testing.T) {
	mockTaskService, app := setupTaskTest(employee)

	in := services.TaskInput{Title: "Write report", Priority: models.PriorityHigh, DueDate: "2026-03-20"}
	mockTaskService.On("Create", mock.Anything, employee, in).
		Return(&models.Task{Meta: models.Meta{ID: "t1", Version: 1}, Title: "Write report", Status: models.TaskStatusTodo}, nil)

	rec := doJSON(t, app, http.MethodPost, "/tasks", dto.CreateTaskRequest{
		Title:    "Write report",
		Priority: models.PriorityHigh,
		DueDate:  "2026-03-20",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.TaskStatusTodo, decodeBody[models.Task](t, rec).Status)
	mockTaskService.AssertExpectations(t)
}

func TestTaskHandler_Create_InvalidInput(t *testing.T) {
	mockTaskService, app := setupTaskTest(employee)

	mockTaskService.On("Create", mock.Anything, employee, mock.Anything).
		Return(nil, errors.Join(services.ErrInvalidInput, errors.New("title is required")))

	rec := doJSON(t, app, http.MethodPost, "/tasks", dto.CreateTaskRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestTaskHandler_Update_VersionConflict(t *testing.T) {
	mockTaskService, app := setupTaskTest(employee)

	upd := services.TaskUpdate{Status: ptr(models.TaskStatusCompleted), Version: 3}
	mockTaskService.On("Update", mock.Anything, employee, "t1", upd).Return(nil, store.ErrVersionConflict)

	rec := doJSON(t, app, http.MethodPatch, "/tasks/t1", dto.UpdateTaskRequest{
		Status:  ptr(models.TaskStatusCompleted),
		Version: 3,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "VERSION_CONFLICT", decodeBody[dto.ErrorResponse](t, rec).Code)
}

func TestTaskHandler_Update_NotOwner(t *testing.T) {
	mockTaskService, app := setupTaskTest(employee)

	mockTaskService.On("Update", mock.Anything, employee, "t9", mock.Anything).Return(nil, services.ErrForbidden)

	rec := doJSON(t, app, http.MethodPatch, "/tasks/t9", dto.UpdateTaskRequest{Title: ptr("mine now")})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTaskHandler_Toggle(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		version int64
	}{
		{name: "without body", body: nil, version: 0},
		{name: "with version", body: dto.VersionRequest{Version: 5}, version: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTaskService, app := setupTaskTest(employee)

			mockTaskService.On("ToggleStatus", mock.Anything, employee, "t1", tt.version).
				Return(&models.Task{Meta: models.Meta{ID: "t1"}, Status: models.TaskStatusCompleted}, nil)

			rec := doJSON(t, app, http.MethodPost, "/tasks/t1/toggle", tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, models.TaskStatusCompleted, decodeBody[models.Task](t, rec).Status)
			mockTaskService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_Delete_NotFound(t *testing.T) {
	mockTaskService, app := setupTaskTest(employee)

	mockTaskService.On("Delete", mock.Anything, employee, "gone").Return(services.ErrTaskNotFound)

	rec := doJSON(t, app, http.MethodDelete, "/tasks/gone", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandler_Delete(t *testing.T) {
	mockTaskService, app := setupTaskTest(employee)

	mockTaskService.On("Delete", mock.Anything, employee, "t1").Return(nil)

	rec := doJSON(t, app, http.MethodDelete, "/tasks/t1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockTaskService.AssertExpectations(t)
}
