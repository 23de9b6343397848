package dto

type CreateProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Team        []string `json:"team"`
}

type UpdateProjectRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Team        []string `json:"team,omitempty"`
	Version     int64    `json:"version"`
}
