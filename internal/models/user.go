package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // requester, approver, admin (free-text labels accepted)
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsApprover reports whether the user's role bypasses the login approval gate.
func (u *User) IsApprover() bool {
	return u.Role == RoleApprover || u.Role == RoleAdmin
}
