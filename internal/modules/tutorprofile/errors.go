package tutorprofile

import "errors"

var (
	ErrAlreadyExists = errors.New("tutor profile already exists")
	ErrNotFound      = errors.New("tutor profile not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrValidation    = errors.New("validation error")
)
