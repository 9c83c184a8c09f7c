package services

import "errors"

// Password reset outcomes visible to callers. Token failures of any kind are
// reported as ErrInvalidOrExpiredToken.
var (
	ErrEmailDeliveryFailed   = errors.New("email could not be sent")
	ErrAccountNotFound       = errors.New("user not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)
