package models

import "time"

const (
	AnnouncementInfo    = "info"
	AnnouncementUrgent  = "urgent"
	AnnouncementSuccess = "success"
)

const (
	AnnouncementNormal = "normal"
	AnnouncementHigh   = "high"
)

type Announcement struct {
	Meta
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	Priority   string    `json:"priority"`
	CreatedAt  time.Time `json:"createdAt"`
}
