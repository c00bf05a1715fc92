package booking

import "time"

type BookLessonRequest struct {
	TutorID     int64     `json:"tutor_id" binding:"required,gt=0"`
	Datetime    time.Time `json:"datetime" binding:"required"`
	IsTrial     bool      `json:"is_trial"`
	IsRecurring bool      `json:"is_recurring"`
}
