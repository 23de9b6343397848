package models

import "time"

const (
	MeetingInPerson = "in-person"
	MeetingVideo    = "video"
)

type Meeting struct {
	Meta
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Duration     int       `json:"duration"`
	Type         string    `json:"type"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// StartsAt parses date and time as a local wall clock in loc.
func (m Meeting) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", m.Date+"T"+m.Time, loc)
}
