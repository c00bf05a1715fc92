package domain

import "time"

// TutorProfile is the teaching extension of a User with role tutor.
// Availability holds one materialized hour-aligned UTC timestamp per
// recurring weekly slot; order is irrelevant.
type TutorProfile struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	Subjects       []string    `json:"subjects"`
	HourlyRate     int64       `json:"hourly_rate"`
	Bio            string      `json:"bio,omitempty"`
	Availability   []time.Time `json:"availability"`
	Rating         float64     `json:"rating"`
	IsApproved     bool        `json:"is_approved"`
	TrialUsedCount int         `json:"trial_used_count"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	User *User `json:"user,omitempty"`
}
