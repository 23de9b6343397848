package models

import "time"

const (
	RoleEmployee = "Employee"
	RoleOwner    = "Owner"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

const (
	DefaultDepartment   = "General"
	DefaultLeaveBalance = 20
)

type User struct {
	Meta
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PhotoURL     string    `json:"photoURL"`
	Department   string    `json:"department"`
	Role         string    `json:"role"`
	JoinedAt     time.Time `json:"joinedAt"`
	LeaveBalance int       `json:"leaveBalance"`
	Status       string    `json:"status"`
}

// Identity is what a sign-in provider tells us about a user.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}
