package models

import "time"

const (
	ProjectPlanning   = "planning"
	ProjectInProgress = "in-progress"
	ProjectReview     = "review"
	ProjectCompleted  = "completed"
)

// ProjectStatuses is the board column order.
var ProjectStatuses = []string{ProjectPlanning, ProjectInProgress, ProjectReview, ProjectCompleted}

type Project struct {
	Meta
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Team        []string  `json:"team"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ValidProjectStatus(s string) bool {
	for _, st := range ProjectStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func (p Project) HasMember(uid string) bool {
	for _, m := range p.Team {
		if m == uid {
			return true
		}
	}
	return false
}
