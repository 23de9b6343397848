package models

import "time"

const (
	LeaveVacation  = "vacation"
	LeaveSick      = "sick"
	LeavePersonal  = "personal"
	LeaveEmergency = "emergency"
)

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type Leave struct {
	Meta
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ValidLeaveType(t string) bool {
	switch t {
	case LeaveVacation, LeaveSick, LeavePersonal, LeaveEmergency:
		return true
	}
	return false
}
