package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to handlers, which map them onto HTTP statuses.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrEmptyAudience      = errors.New("no customers match the campaign criteria")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLaunchInProgress   = errors.New("a launch for this campaign is already in progress")
)

// ValidationError reports malformed input: bad campaign payloads, duplicate
// emails, illegal status transitions. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
