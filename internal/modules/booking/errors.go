package booking

import "errors"

var (
	ErrNotFound            = errors.New("user not found")
	ErrTutorNotFound       = errors.New("tutor not found")
	ErrTutorNotApproved    = errors.New("tutor is not approved")
	ErrValidation          = errors.New("validation error")
	ErrSlotUnavailable     = errors.New("slot is not in the tutor's availability")
	ErrSlotTaken           = errors.New("slot is already booked")
	ErrInsufficientCredits = errors.New("insufficient credits")
)
