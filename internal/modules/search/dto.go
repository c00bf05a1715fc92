package search

import (
	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/pkg/slots"
)

// Filter narrows the tutor list by slot weekday and hour. A profile matches
// when a single availability slot satisfies both lists at once.
type Filter struct {
	Days  []int
	Hours []int
}

// TutorResult is an approved profile enriched with its user and the weekly
// ranges the schedule grid renders.
type TutorResult struct {
	*domain.TutorProfile
	WeeklyRanges []slots.Range `json:"weekly_ranges"`
}

// Page is one page of tutor results. NextCursor is nil on the last page.
type Page struct {
	Tutors     []TutorResult `json:"tutors"`
	NextCursor *string       `json:"next_cursor"`
}
