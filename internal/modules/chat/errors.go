package chat

import "errors"

var (
	ErrEmptyContent = errors.New("message content is empty")
	ErrBadChannel   = errors.New("channel id is empty")
)
