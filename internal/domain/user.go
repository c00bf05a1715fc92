package domain

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTutor   UserRole = "tutor"
	RoleAdmin   UserRole = "admin"
)

// User mirrors the identity-provider subject plus the credit wallet.
// Credits are stored in the smallest currency unit and never go negative;
// the invariant is enforced at deduction time.
type User struct {
	ID        int64     `json:"id"`
	ClerkID   string    `json:"clerk_id"`
	Role      UserRole  `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Credits   int64     `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
