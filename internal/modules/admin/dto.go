package admin

import (
	"github.com/dagi345/Tutorly/internal/domain"
)

// KPIs is the headline numbers block on the dashboard. Revenue counts
// completed non-trial lessons only.
type KPIs struct {
	TotalUsers       int   `json:"total_users"`
	TotalTutors      int   `json:"total_tutors"`
	TotalStudents    int   `json:"total_students"`
	TotalLessons     int   `json:"total_lessons"`
	CompletedLessons int   `json:"completed_lessons"`
	TotalRevenue     int64 `json:"total_revenue"`
}

// MonthRevenue is one bar of the revenue chart; Month is "2025-07".
type MonthRevenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
	Lessons int    `json:"lessons"`
}

// TutorStanding ranks a tutor by completed lessons and earned revenue.
type TutorStanding struct {
	Tutor            *domain.User `json:"tutor"`
	Rating           float64      `json:"rating"`
	CompletedLessons int          `json:"completed_lessons"`
	Revenue          int64        `json:"revenue"`
}

// PendingPayout is what a tutor is owed for completed lessons.
type PendingPayout struct {
	Tutor  *domain.User `json:"tutor"`
	Amount int64        `json:"amount"`
}
