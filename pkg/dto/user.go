package dto

import "time"

type UserResponse struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PhotoURL     string    `json:"photoURL"`
	Department   string    `json:"department"`
	Role         string    `json:"role"`
	JoinedAt     time.Time `json:"joinedAt"`
	LeaveBalance int       `json:"leaveBalance"`
	Status       string    `json:"status"`
	// IsOwner reflects the caller's effective role, which configured owner
	// emails can raise above the stored one.
	IsOwner bool `json:"isOwner,omitempty"`
}

type UpdateUserRequest struct {
	DisplayName string `json:"displayName"`
}

type UpdateEmploymentRequest struct {
	Department *string `json:"department,omitempty"`
	Role       *string `json:"role,omitempty"`
	Status     *string `json:"status,omitempty"`
}
