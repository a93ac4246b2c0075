package core

import "errors"

var (
	ErrStoreUnavailable = errors.New("document store unavailable")
	ErrWriteFailure     = errors.New("document write failed")
	ErrInvalidID        = errors.New("invalid document id")
	ErrNotFound         = errors.New("document not found")
	ErrValidation       = errors.New("validation failed")
)
