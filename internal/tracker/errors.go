package tracker

import "errors"

// ErrStorageUnavailable and related errors classify store failures.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrWriteFailed        = errors.New("write failed")
	ErrNotFound           = errors.New("not found")
)
