package lesson

import "github.com/dagi345/Tutorly/internal/domain"

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=booked started completed cancelled"`
}

// JoinableLesson pairs a lesson with the user on the other side of it.
type JoinableLesson struct {
	*domain.Lesson
	Counterpart *domain.User `json:"counterpart,omitempty"`
}
