package thread_errors

import "errors"

// Common errors
var (
	ErrAccessDenied   = errors.New("access denied")
	ErrInvalidRequest = errors.New("invalid request")
	ErrStorageFailure = errors.New("storage failure")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")
	ErrRateLimited    = errors.New("rate limited")
)
