package lesson

import "errors"

var (
	ErrNotFound          = errors.New("lesson not found")
	ErrForbidden         = errors.New("not a participant of this lesson")
	ErrInvalidStatus     = errors.New("unknown lesson status")
	ErrInvalidTransition = errors.New("invalid status transition")
)
