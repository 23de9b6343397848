package dto

import "github.com/dimitrije/officehub/internal/models"

type CreateTimeTaskRequest struct {
	Name string `json:"name"`
}

type CreateTimeLogRequest struct {
	TaskID string  `json:"taskId"`
	Hours  float64 `json:"hours"`
}

type TimeLogsResponse struct {
	Logs       []models.TimeLog `json:"logs"`
	TotalHours float64          `json:"totalHours"`
}
