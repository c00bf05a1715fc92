package user

import "errors"

var (
	ErrNotFound            = errors.New("user not found")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientCredits = errors.New("insufficient credits")
)
