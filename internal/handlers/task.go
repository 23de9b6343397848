package handlers

import (
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type TaskHandler struct {
	taskService TaskServiceInterface
}

func NewTaskHandler(taskService TaskServiceInterface) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) List(c *drift.Context) {
	tasks, err := h.taskService.List(c.Request.Context(), middleware.GetSession(c), services.TaskFilter{
		Search:   c.QueryParam("search"),
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
	})
	if err != nil {
		respondError(c, err, "list tasks")
		return
	}
	_ = c.JSON(200, tasks)
}

func (h *TaskHandler) Stats(c *drift.Context) {
	stats, err := h.taskService.Stats(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, err, "load task stats")
		return
	}
	_ = c.JSON(200, stats)
}

func (h *TaskHandler) Create(c *drift.Context) {
	var req dto.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), middleware.GetSession(c), services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, err, "create task")
		return
	}
	_ = c.JSON(201, task)
}

func (h *TaskHandler) Update(c *drift.Context) {
	var req dto.UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), middleware.GetSession(c), c.Param("id"), services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
		Version:     req.Version,
	})
	if err != nil {
		respondError(c, err, "update task")
		return
	}
	_ = c.JSON(200, task)
}

// Toggle flips a task between todo and completed. The body may carry the
// version the client last saw.
func (h *TaskHandler) Toggle(c *drift.Context) {
	var req dto.VersionRequest
	_ = c.BindJSON(&req)

	task, err := h.taskService.ToggleStatus(c.Request.Context(), middleware.GetSession(c), c.Param("id"), req.Version)
	if err != nil {
		respondError(c, err, "update task")
		return
	}
	_ = c.JSON(200, task)
}

func (h *TaskHandler) Delete(c *drift.Context) {
	if err := h.taskService.Delete(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		respondError(c, err, "delete task")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "task deleted"})
}
