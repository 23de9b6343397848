package dto

import "github.com/dimitrije/officehub/internal/models"

type CreateAnnouncementRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
}

type AnnouncementListResponse struct {
	Announcements []models.Announcement `json:"announcements"`
	Total         int                   `json:"total"`
	Urgent        int                   `json:"urgent"`
	LastWeek      int                   `json:"lastWeek"`
}
