package domain

import "time"

type LessonStatus string

const (
	LessonBooked    LessonStatus = "booked"
	LessonStarted   LessonStatus = "started"
	LessonCompleted LessonStatus = "completed"
	LessonCancelled LessonStatus = "cancelled"
)

// lessonTransitions is the full status graph. completed and cancelled are
// terminal.
var lessonTransitions = map[LessonStatus][]LessonStatus{
	LessonBooked:  {LessonStarted, LessonCancelled},
	LessonStarted: {LessonCompleted, LessonCancelled},
}

// CanTransition reports whether moving a lesson from one status to another
// is allowed by the state machine.
func CanTransition(from, to LessonStatus) bool {
	for _, next := range lessonTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s LessonStatus) Valid() bool {
	switch s {
	case LessonBooked, LessonStarted, LessonCompleted, LessonCancelled:
		return true
	}
	return false
}

// Lesson is a booked slot between a tutor and a student. Cost is fixed at
// booking time. Lessons are never deleted; cancelled rows stay as audit
// records.
type Lesson struct {
	ID              int64        `json:"id"`
	TutorID         int64        `json:"tutor_id"`
	StudentID       int64        `json:"student_id"`
	Datetime        time.Time    `json:"datetime"`
	DurationMinutes int          `json:"duration_minutes"`
	Cost            int64        `json:"cost"`
	Status          LessonStatus `json:"status"`
	IsTrial         bool         `json:"is_trial"`
	IsRecurring     bool         `json:"is_recurring"`
	CallID          string       `json:"call_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`

	Tutor   *User `json:"tutor,omitempty"`
	Student *User `json:"student,omitempty"`
}
