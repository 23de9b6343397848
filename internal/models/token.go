package models

import "time"

// RefreshToken is a stored refresh token, keyed by the token hash.
type RefreshToken struct {
	Meta
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
