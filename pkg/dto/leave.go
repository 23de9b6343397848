package dto

type LeaveRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
	Version   int64  `json:"version,omitempty"`
}

type ReviewLeaveRequest struct {
	Status string `json:"status"`
}
