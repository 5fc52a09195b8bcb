package model

import "errors"

// Errors
var (
	ErrMissingToken     = errors.New("no authentication token found")
	ErrSessionExpired   = errors.New("session expired, please login again")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrUnknownSection   = errors.New("unknown dashboard section")
)
