package handlers

import (
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

// TimeTrackingHandler serves the caller's own time tracker. There is no way
// to address another user's tasks or logs.
type TimeTrackingHandler struct {
	timeService TimeTrackingServiceInterface
}

func NewTimeTrackingHandler(timeService TimeTrackingServiceInterface) *TimeTrackingHandler {
	return &TimeTrackingHandler{timeService: timeService}
}

func (h *TimeTrackingHandler) Tasks(c *drift.Context) {
	tasks, err := h.timeService.Tasks(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "list tracked tasks")
		return
	}
	_ = c.JSON(200, tasks)
}

func (h *TimeTrackingHandler) AddTask(c *drift.Context) {
	var req dto.CreateTimeTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	task, err := h.timeService.AddTask(c.Request.Context(), middleware.GetUserID(c), req.Name)
	if err != nil {
		respondError(c, err, "add tracked task")
		return
	}
	_ = c.JSON(201, task)
}

func (h *TimeTrackingHandler) ToggleTask(c *drift.Context) {
	task, err := h.timeService.ToggleTask(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "update tracked task")
		return
	}
	_ = c.JSON(200, task)
}

func (h *TimeTrackingHandler) DeleteTask(c *drift.Context) {
	if err := h.timeService.DeleteTask(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "delete tracked task")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "task deleted"})
}

func (h *TimeTrackingHandler) Logs(c *drift.Context) {
	logs, err := h.timeService.Logs(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "list time logs")
		return
	}
	_ = c.JSON(200, dto.TimeLogsResponse{Logs: logs, TotalHours: services.TotalHours(logs)})
}

func (h *TimeTrackingHandler) AddLog(c *drift.Context) {
	var req dto.CreateTimeLogRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	entry, err := h.timeService.AddLog(c.Request.Context(), middleware.GetUserID(c), req.TaskID, req.Hours)
	if err != nil {
		respondError(c, err, "log time")
		return
	}
	_ = c.JSON(201, entry)
}

func (h *TimeTrackingHandler) ToggleLog(c *drift.Context) {
	entry, err := h.timeService.ToggleLog(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "update time log")
		return
	}
	_ = c.JSON(200, entry)
}

func (h *TimeTrackingHandler) DeleteLog(c *drift.Context) {
	if err := h.timeService.DeleteLog(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "delete time log")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "time log deleted"})
}
