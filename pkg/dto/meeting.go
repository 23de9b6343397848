package dto

type CreateMeetingRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Duration     int      `json:"duration"`
	Type         string   `json:"type"`
	Participants []string `json:"participants"`
}

type UpdateMeetingRequest struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Date         *string  `json:"date,omitempty"`
	Time         *string  `json:"time,omitempty"`
	Duration     *int     `json:"duration,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Version      int64    `json:"version"`
}
