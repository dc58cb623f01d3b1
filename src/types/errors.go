package types

import (
	"errors"
	"strings"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrForbidden           = errors.New("not enough permissions to perform this action")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrConcurrencyConflict = errors.New("this record was modified by another user. Please reload and try again")
)

// ValidationError carries every user-facing message collected while validating one request.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

func IsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
