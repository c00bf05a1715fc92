package review

import "errors"

var (
	ErrNotFound      = errors.New("review not found")
	ErrLessonMissing = errors.New("lesson not found")
	ErrNotAllowed    = errors.New("review not allowed")
	ErrAlreadyExists = errors.New("lesson already reviewed")
	ErrValidation    = errors.New("validation error")
)
