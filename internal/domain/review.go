package domain

import "time"

// Review is created at most once per completed lesson.
type Review struct {
	ID        int64     `json:"id"`
	LessonID  int64     `json:"lesson_id"`
	TutorID   int64     `json:"tutor_id"`
	StudentID int64     `json:"student_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
