package booking

import (
	"errors"
	"fmt"
)

// Error codes for the booking flow. Each inbound turn recovers differently
// depending on the code, so callers match on it rather than on the message.
const (
	CodeValidation   = "validationError"
	CodeConflict     = "conflictError"
	CodeExpiredOffer = "expiredOfferError"
	CodeUpstream     = "upstreamUnavailable"
	CodePersistence  = "persistenceError"
)

type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidationError(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

func NewConflictError(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

func NewExpiredOfferError(msg string) error {
	return &Error{Code: CodeExpiredOffer, Message: msg}
}

func NewUpstreamError(msg string, err error) error {
	return &Error{Code: CodeUpstream, Message: msg, Err: err}
}

func NewPersistenceError(msg string, err error) error {
	return &Error{Code: CodePersistence, Message: msg, Err: err}
}

func hasCode(err error, code string) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == code
}

func IsConflict(err error) bool     { return hasCode(err, CodeConflict) }
func IsExpiredOffer(err error) bool { return hasCode(err, CodeExpiredOffer) }
func IsPersistence(err error) bool  { return hasCode(err, CodePersistence) }
