package model

import "time"

// Account roles. Admins curate the problem catalog; regular users submit
// solutions and earn badges.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is one account on the platform. The stats snapshot, the submission
// history and every badge award hang off its ID.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // bcrypt hash, cleared before any response
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
