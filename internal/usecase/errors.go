package usecase

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal error")
	ErrJobNotFound       = errors.New("job not found")
	ErrSourceUnavailable = errors.New("match store unavailable")
	ErrRunInProgress     = errors.New("ranking run already in progress")
)
