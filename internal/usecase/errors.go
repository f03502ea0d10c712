package usecase

import "errors"

var (
	ErrUserNotRegistered = errors.New("user not registered")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrInvalidFilter     = errors.New("invalid alert filter")
	ErrRecordNotFound    = errors.New("record not found")

	// ErrReadFailed marks a recompute aborted before any write; callers may retry.
	ErrReadFailed = errors.New("alert recompute read failed")
	// ErrWriteFailed marks a recompute aborted at persist; no notification was sent.
	ErrWriteFailed = errors.New("alert recompute write failed")
)
